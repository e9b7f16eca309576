package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/strcase"

	"ezexport/internal/logger"
	"ezexport/internal/models"
	"ezexport/internal/validator"
	"ezexport/pkg/utils"
)

// ErrEmptySheet is returned when the sheet has no header row.
var ErrEmptySheet = errors.New("manifest sheet is empty")

// Column names after camel-casing the sheet headers.
const (
	ColumnNodeID         = "nodeId"
	ColumnObjectID       = "objectId"
	ColumnCategory       = "category"
	ColumnNewDestination = "newDestination"
	ColumnURL            = "url"

	tagMarker = "tag"
)

var knownColumns = map[string]bool{
	ColumnNodeID:         true,
	ColumnObjectID:       true,
	ColumnCategory:       true,
	ColumnNewDestination: true,
	ColumnURL:            true,
}

// Parser turns a CSV sheet export into validated page records.
type Parser struct {
	domain    string
	validator *validator.Validator
	logger    *logger.Logger
}

// NewParser creates a parser. domain prefixes every record's full URL.
func NewParser(domain string, v *validator.Validator, log *logger.Logger) *Parser {
	if v == nil {
		v = validator.New()
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Parser{
		domain:    domain,
		validator: v,
		logger:    log,
	}
}

// Parse reads the sheet. Rows outside the category whitelist are skipped,
// as are rows that fail validation for any other reason.
func (p *Parser) Parse(r io.Reader) ([]models.PageRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySheet
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}

	columns := columnNames(header)

	var pages []models.PageRecord

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read sheet line %d: %w", line, err)
		}

		page := p.pageFromRow(columns, record)

		if err := p.validator.ValidatePage(&page); err != nil {
			var fieldErrs validator.FieldErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) == 1 && fieldErrs[ColumnCategory] != "" {
				p.logger.Debug("skipping row outside category whitelist", "line", line, "category", page.Category)
				continue
			}

			p.logger.Warn("skipping invalid sheet row", "line", line, "error", err)

			continue
		}

		pages = append(pages, page)
	}

	return pages, nil
}

func (p *Parser) pageFromRow(columns []string, record []string) models.PageRecord {
	row := make(map[string]string, len(columns))
	for i, name := range columns {
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}

	rawURL := row[ColumnURL]
	path := "/" + rawURL

	return models.PageRecord{
		NodeID:         strings.TrimSpace(row[ColumnNodeID]),
		ObjectID:       strings.TrimSpace(row[ColumnObjectID]),
		Category:       models.Category(strcase.ToLowerCamel(row[ColumnCategory])),
		NewDestination: strings.ToLower(row[ColumnNewDestination]),
		URL:            path,
		URLFull:        utils.JoinURL(p.domain, path),
		Org:            OrgForURL(rawURL),
		Tags:           tagsFromRow(columns, row),
	}
}

// columnNames camel-cases the header row.
func columnNames(header []string) []string {
	columns := make([]string, len(header))

	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}

		columns[i] = strcase.ToLowerCamel(strings.TrimSpace(h))
	}

	return columns
}

// tagsFromRow collects non-empty values of every extra column whose name contains "tag".
func tagsFromRow(columns []string, row map[string]string) []string {
	tags := []string{}
	seen := make(map[string]bool, len(columns))

	for _, name := range columns {
		if seen[name] || knownColumns[name] || !strings.Contains(name, tagMarker) {
			continue
		}

		seen[name] = true

		if v := row[name]; v != "" {
			tags = append(tags, v)
		}
	}

	return tags
}
