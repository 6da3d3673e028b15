package testdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/service"
)

// Header is the column layout of generated sheets.
var Header = []string{"Date", "Transaction", "Amount", "Tags", "ID", "Remarks"}

// Options shape a generated sheet.
type Options struct {
	Months int
	Seed   int64
	Start  time.Time
}

func (o Options) withDefaults() Options {
	if o.Months <= 0 {
		o.Months = 6
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return o
}

type spend struct {
	desc, tag  string
	minC, maxC int64
}

var spends = []spend{
	{"GROCERIES SM SUPERMARKET", "food", 80000, 350000},
	{"JOLLIBEE", "food", 15000, 60000},
	{"MERALCO", "utilities", 200000, 450000},
	{"GRAB RIDE", "transport", 12000, 40000},
	{"NETFLIX", "subscriptions", 54900, 54900},
	{"SHOPEE", "shopping", 30000, 250000},
}

var people = []string{"Juan", "Maria", "Pedro", "Ana"}

// Generate writes a deterministic sample sheet to w: monthly salary,
// everyday spending, and loans that are partly or fully repaid.
func Generate(w io.Writer, opts Options) error {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	write := func(date time.Time, desc string, cents int64, tag, id, remarks string) error {
		return cw.Write([]string{date.Format("2006-01-02"), desc, formatAmount(cents), tag, id, remarks})
	}

	for m := 0; m < opts.Months; m++ {
		month := opts.Start.AddDate(0, m, 0)
		if err := write(month.AddDate(0, 0, 14), "SALARY ACME CORP", 4500000+rng.Int63n(500000), "income", "", ""); err != nil {
			return err
		}
		for i := 0; i < 8; i++ {
			s := spends[rng.Intn(len(spends))]
			cents := s.minC
			if s.maxC > s.minC {
				cents += rng.Int63n(s.maxC - s.minC)
			}
			day := month.AddDate(0, 0, rng.Intn(28))
			if err := write(day, s.desc, -cents, s.tag, "", ""); err != nil {
				return err
			}
		}
		if m%2 == 0 {
			who := people[rng.Intn(len(people))]
			lent := int64(100000 * (1 + rng.Intn(5)))
			if err := write(month.AddDate(0, 0, 3), "Lent to "+who, -lent, "loan", who, ""); err != nil {
				return err
			}
			back := lent
			if rng.Intn(2) == 0 {
				back = lent / 2
			}
			if err := write(month.AddDate(0, 0, 20), who+" paid back", back, "loan", who, "utang"); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatAmount renders cents the way bank exports do, with a peso sign and
// thousands separators.
func formatAmount(cents int64) string {
	return dataframe.FormatAmount(decimal.New(cents, -2), "₱")
}

// Seed uploads a generated sheet through svc.
func Seed(ctx context.Context, svc *service.SheetService, name string, opts Options) (repository.Sheet, *dataframe.ParseReport, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, opts); err != nil {
		return repository.Sheet{}, nil, fmt.Errorf("generate sample: %w", err)
	}
	return svc.Upload(ctx, name, buf.String())
}
