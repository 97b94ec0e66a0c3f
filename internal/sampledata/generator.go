package sampledata

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/portal/internal/domain/model"
)

// ErrInvalidConfig is returned for settings that cannot produce a dataset.
var ErrInvalidConfig = errors.New("invalid sample data config")

var firstNames = []string{
	"Aiden", "Blake", "Caleb", "Darius", "Elijah", "Frank", "Gavin", "Hunter",
	"Isaiah", "Jalen", "Kobe", "Landon", "Marcus", "Nolan", "Owen", "Preston",
	"Quincy", "Reggie", "Silas", "Trey", "Uriah", "Vince", "Wyatt", "Xavier",
	"Yusuf", "Zane",
}

var lastNames = []string{
	"Adams", "Brooks", "Carter", "Dixon", "Ellis", "Foster", "Griffin", "Hayes",
	"Irving", "Jenkins", "King", "Lewis", "Mitchell", "Nelson", "Owens", "Price",
	"Reed", "Sanders", "Turner", "Vaughn", "Walker", "Young",
}

var schoolRoots = []string{
	"Alabama", "Arizona", "Auburn", "Baylor", "Boise State", "Clemson",
	"Colorado", "Duke", "Florida", "Georgia", "Houston", "Iowa", "Kansas",
	"Kentucky", "LSU", "Miami", "Michigan", "Minnesota", "Nebraska", "Oklahoma",
	"Oregon", "Penn State", "Purdue", "Rutgers", "Stanford", "Syracuse", "TCU",
	"Tennessee", "Texas", "Toledo", "Tulane", "UCLA", "USC", "Utah", "Vanderbilt",
	"Virginia", "Wake Forest", "Washington", "Wisconsin", "Wyoming",
}

// Validate reports settings that cannot produce a dataset.
func (c *Config) Validate() error {
	switch {
	case c.Records < 0:
		return fmt.Errorf("%w: records must not be negative", ErrInvalidConfig)
	case c.Schools < 2:
		return fmt.Errorf("%w: need at least two schools", ErrInvalidConfig)
	case c.FirstYear < 1 || c.LastYear < c.FirstYear:
		return fmt.Errorf("%w: season range %d-%d", ErrInvalidConfig, c.FirstYear, c.LastYear)
	case c.NullRate < 0 || c.NullRate > 1:
		return fmt.Errorf("%w: null rate must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// Generate builds a deterministic dataset from cfg.Seed.
func Generate(cfg *Config) ([]model.TransferRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	schools := SchoolNames(cfg.Schools)
	seasons := cfg.LastYear - cfg.FirstYear + 1

	records := make([]model.TransferRecord, cfg.Records)
	for i := range records {
		origin := rng.IntN(len(schools))
		dest := rng.IntN(len(schools) - 1)
		if dest >= origin {
			dest++
		}

		rec := model.TransferRecord{
			FirstName: firstNames[rng.IntN(len(firstNames))],
			LastName:  lastNames[rng.IntN(len(lastNames))],
			Season:    cfg.FirstYear + rng.IntN(seasons),
		}
		if !nullDraw(rng, cfg.NullRate) {
			rec.Origin = model.StringPtr(schools[origin])
		}
		if !nullDraw(rng, cfg.NullRate) {
			rec.Destination = model.StringPtr(schools[dest])
		}
		if !nullDraw(rng, cfg.NullRate) {
			rec.Rating = model.Float64Ptr(math.Round((70+rng.Float64()*30)*100) / 100)
		}
		if !nullDraw(rng, cfg.NullRate) {
			rec.Stars = model.IntPtr(starsFor(rng))
		}
		records[i] = rec
	}
	return records, nil
}

// SchoolNames returns n distinct school names.
func SchoolNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		root := schoolRoots[i%len(schoolRoots)]
		if round := i / len(schoolRoots); round > 0 {
			names[i] = fmt.Sprintf("%s %d", root, round+1)
		} else {
			names[i] = root
		}
	}
	return names
}

func nullDraw(rng *rand.Rand, rate float64) bool {
	return rate > 0 && rng.Float64() < rate
}

// starsFor skews toward three stars the way recruiting rankings do.
func starsFor(rng *rand.Rand) int {
	switch p := rng.Float64(); {
	case p < 0.05:
		return 5
	case p < 0.25:
		return 4
	case p < 0.75:
		return 3
	case p < 0.95:
		return 2
	default:
		return 1
	}
}
