package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "First Name,Last Name,Origin School,Destination School,Season,Rating,Stars\n"

func TestStoreReload(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store over a valid dataset", t, func() {
		path := filepath.Join(t.TempDir(), "portal.csv")
		So(os.WriteFile(path, []byte(header+"Sam,Lee,Alpha U,Beta U,2023,90,4\n"), 0o600), ShouldBeNil)
		store := repository.NewStore(path)

		Convey("Before the first load the table is empty, never nil", func() {
			So(store.Current(), ShouldNotBeNil)
			So(store.Current().Len(), ShouldEqual, 0)
			So(store.Loads(), ShouldEqual, 0)
		})

		Convey("When loading at startup", func() {
			table, err := store.Reload(ctx, repository.TriggerStartup)

			Convey("Then the table becomes current", func() {
				So(err, ShouldBeNil)
				So(store.Current(), ShouldEqual, table)
				So(store.Current().Len(), ShouldEqual, 1)
				So(store.Loads(), ShouldEqual, 1)
			})

			Convey("And the file is replaced with more rows", func() {
				So(os.WriteFile(path, []byte(header+"Sam,Lee,Alpha U,Beta U,2023,90,4\nAnn,Cho,Beta U,Alpha U,2023,80,3\n"), 0o600), ShouldBeNil)
				next, err := store.Reload(ctx, repository.TriggerAPI)

				Convey("Then a new snapshot with a new ID is published", func() {
					So(err, ShouldBeNil)
					So(next.ID(), ShouldNotEqual, table.ID())
					So(store.Current().Len(), ShouldEqual, 2)
					So(table.Len(), ShouldEqual, 1)
				})
			})

			Convey("And the file is broken", func() {
				So(os.WriteFile(path, []byte("First Name,Season\nSam,2023\n"), 0o600), ShouldBeNil)
				_, err := store.Reload(ctx, repository.TriggerAPI)

				Convey("Then the previous table stays active", func() {
					So(errors.Is(err, repository.ErrMissingColumns), ShouldBeTrue)
					So(store.Current(), ShouldEqual, table)
					So(store.Loads(), ShouldEqual, 1)
				})
			})

			Convey("And the file is removed", func() {
				So(os.Remove(path), ShouldBeNil)
				_, err := store.Reload(ctx, repository.TriggerAPI)

				Convey("Then the previous table stays active", func() {
					So(errors.Is(err, repository.ErrFileNotFound), ShouldBeTrue)
					So(store.Current(), ShouldEqual, table)
				})
			})
		})
	})

	Convey("Given concurrent readers during reloads", t, func() {
		path := filepath.Join(t.TempDir(), "portal.csv")
		So(os.WriteFile(path, []byte(header+"A,A,Alpha U,Beta U,2023,90,4\nB,B,Alpha U,Beta U,2023,80,3\n"), 0o600), ShouldBeNil)
		store := repository.NewStore(path)
		_, err := store.Reload(ctx, repository.TriggerStartup)
		So(err, ShouldBeNil)

		Convey("Then every observed table is complete", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			sizes := map[int]int{}
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 200; j++ {
						n := store.Current().Len()
						mu.Lock()
						sizes[n]++
						mu.Unlock()
					}
				}()
			}
			for i := 0; i < 5; i++ {
				_, err := store.Reload(ctx, repository.TriggerAPI)
				So(err, ShouldBeNil)
			}
			wg.Wait()

			for n := range sizes {
				So(n, ShouldEqual, 2)
			}
		})
	})

	Convey("Given a table swapped in directly", t, func() {
		store := repository.NewStore("unused.csv")
		table := model.NewTable("memory", []model.TransferRecord{{FirstName: "A", Season: 2023}})
		old := store.Swap(table)

		Convey("Then the previous table is returned and the new one is current", func() {
			So(old.Len(), ShouldEqual, 0)
			So(store.Current(), ShouldEqual, table)
		})

		Convey("Then swapping nil installs an empty table", func() {
			store.Swap(nil)
			So(store.Current(), ShouldNotBeNil)
			So(store.Current().Len(), ShouldEqual, 0)
		})
	})
}

func TestWatcher(t *testing.T) {
	Convey("Given a watched dataset", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		path := filepath.Join(t.TempDir(), "portal.csv")
		So(os.WriteFile(path, []byte(header+"Sam,Lee,Alpha U,Beta U,2023,90,4\n"), 0o600), ShouldBeNil)
		store := repository.NewStore(path)
		first, err := store.Reload(ctx, repository.TriggerStartup)
		So(err, ShouldBeNil)

		w, err := repository.NewWatcher(store, repository.WithDebounce(20*time.Millisecond))
		So(err, ShouldBeNil)
		So(w.Start(ctx), ShouldBeNil)
		defer func() { _ = w.Close() }()

		Convey("When the file is rewritten", func() {
			So(os.WriteFile(path, []byte(header+"Sam,Lee,Alpha U,Beta U,2023,90,4\nAnn,Cho,Beta U,Alpha U,2023,80,3\n"), 0o600), ShouldBeNil)

			Convey("Then the store picks up the new snapshot", func() {
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) && store.Current().ID() == first.ID() {
					time.Sleep(20 * time.Millisecond)
				}
				So(store.Current().ID(), ShouldNotEqual, first.ID())
				So(store.Current().Len(), ShouldEqual, 2)
			})
		})

		Convey("When the watcher is closed twice", func() {
			So(w.Close(), ShouldBeNil)
			So(w.Close(), ShouldBeNil)
		})
	})
}
