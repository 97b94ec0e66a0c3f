package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/portal/internal/adapters/http/api"
	service "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestPaddedSchoolNames(t *testing.T) {
	Convey("Given a dataset whose school cells carry surrounding spaces", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "padded.csv")
		data := "First Name,Last Name,Origin School,Destination School,Season,Rating,Stars\n" +
			"Sam,Lee,Alpha U ,  Beta U,2023,90,4\n" +
			"Ann,Poe, Beta U,Alpha U  ,2023,80,3\n"
		So(os.WriteFile(path, []byte(data), 0o600), ShouldBeNil)

		svc := service.New(service.WithDatasetPath(path))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(ctx, mux)

		get := func(target string, v any) int {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			if v != nil {
				So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
			}
			return w.Code
		}

		Convey("Then every school the picker lists can be queried", func() {
			var sel types.Selection
			So(get("/schools", &sel), ShouldEqual, http.StatusOK)
			So(sel.Schools, ShouldResemble, []string{"Alpha U", "Beta U"})

			for _, school := range sel.Schools {
				var report types.Report
				q := url.Values{"school": {school}, "season": {"2023"}}
				So(get("/transfers?"+q.Encode(), &report), ShouldEqual, http.StatusOK)
				So(len(report.Outgoing), ShouldEqual, 1)
				So(len(report.Incoming), ShouldEqual, 1)
			}
		})

		Convey("Then the report page finds the default school", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/report", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Sam")
			So(w.Body.String(), ShouldContainSubstring, "Ann")
		})
	})
}
