package sheets

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// Quote is one row of the financial sheet: a quoted amount for a job.
type Quote struct {
	JobNo   string  `json:"job_no"`
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// headerAliases maps the column roles to the header spellings the finance
// sheets have used over time.
var headerAliases = map[string][]string{
	"job":     {"job", "job no", "job number", "job#"},
	"address": {"address", "site", "site address", "property"},
	"amount":  {"amount", "quote", "quoted", "total", "value"},
}

// FindHeaderRow locates the header row: the first row matching at least two
// known column roles. Sheets exported from the finance workbook carry title
// and date rows above the real header.
func FindHeaderRow(records [][]string) (int, map[string]int) {
	for i, row := range records {
		cols := matchColumns(row)
		if len(cols) >= 2 {
			return i, cols
		}
	}
	return -1, nil
}

func matchColumns(row []string) map[string]int {
	cols := make(map[string]int)
	for i, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for role, aliases := range headerAliases {
			if _, taken := cols[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if cell == alias {
					cols[role] = i
					break
				}
			}
		}
	}
	return cols
}

// ParseMoney coerces sheet currency cells: "$1,234.50" -> 1234.5 and the
// accountant's "(500)" -> -500. Empty and dash cells are zero.
func ParseMoney(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return 0
	}
	negative := false
	if strings.HasPrefix(cell, "(") && strings.HasSuffix(cell, ")") {
		negative = true
		cell = cell[1 : len(cell)-1]
	}
	cell = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cell)
	v := cast.ToFloat64(cell)
	if negative {
		return -v
	}
	return v
}

// ParsePercent coerces "12.5%" -> 0.125 and bare "0.125" unchanged.
func ParsePercent(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if strings.HasSuffix(cell, "%") {
		return cast.ToFloat64(strings.TrimSuffix(cell, "%")) / 100
	}
	return cast.ToFloat64(cell)
}

// ParseQuotes extracts quote rows from a raw sheet export.
func ParseQuotes(records [][]string) ([]Quote, error) {
	headerRow, cols := FindHeaderRow(records)
	if headerRow < 0 {
		return nil, errors.NotFoundf("header row in sheet export")
	}
	jobCol, hasJob := cols["job"]
	amountCol, hasAmount := cols["amount"]
	if !hasJob || !hasAmount {
		return nil, errors.NotFoundf("job and amount columns in sheet export")
	}
	addressCol, hasAddress := cols["address"]

	quotes := make([]Quote, 0, len(records)-headerRow-1)
	for _, row := range records[headerRow+1:] {
		if jobCol >= len(row) || amountCol >= len(row) {
			continue
		}
		jobNo := strings.TrimSpace(row[jobCol])
		if jobNo == "" {
			continue
		}
		q := Quote{
			JobNo:  jobNo,
			Amount: ParseMoney(row[amountCol]),
		}
		if hasAddress && addressCol < len(row) {
			q.Address = strings.TrimSpace(row[addressCol])
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// LoadQuotes reads a CSV export and parses its quote rows.
func LoadQuotes(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open sheet export %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // exports have ragged rows above the header
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Annotatef(err, "failed to read sheet export %s", path)
	}
	return ParseQuotes(records)
}
