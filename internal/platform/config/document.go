package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// DateLayout is the date format used in document files.
const DateLayout = time.DateOnly

// DocumentFile is the settings file read by invoicectl. The invoice section
// has the same shape and defaults as the service configuration.
type DocumentFile struct {
	Invoice   InvoiceConfig `koanf:"invoice"    validate:"required"`
	Number    string        `koanf:"number"`
	IssueDate string        `koanf:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string        `koanf:"due_date"   validate:"omitempty,datetime=2006-01-02"`
	Client    BillToConfig  `koanf:"client"`
}

// BillToConfig is the client block of a document file.
type BillToConfig struct {
	Name    string `koanf:"name"`
	Address string `koanf:"address"`
	Email   string `koanf:"email"   validate:"omitempty,email"`
	Phone   string `koanf:"phone"`
}

// LoadDocument reads a document file. An empty path yields the defaults.
func LoadDocument(path string) (*DocumentFile, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(invoiceDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading document file %q: %w", path, err)
		}
	}

	var doc DocumentFile
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling document file: %w", err)
	}

	return &doc, nil
}

// Validate checks the document file with the same rules as the service config.
func (d *DocumentFile) Validate() error {
	return check(d)
}

// DocumentSettings returns the settings described by the file. A missing
// issue date means today.
func (d *DocumentFile) DocumentSettings(now time.Time) domain.DocumentSettings {
	settings := d.Invoice.DocumentSettings(now)
	settings.Number = d.Number
	settings.Client = domain.Party{
		Name:    d.Client.Name,
		Address: d.Client.Address,
		Email:   d.Client.Email,
		Phone:   d.Client.Phone,
	}

	if t, err := time.ParseInLocation(DateLayout, d.IssueDate, now.Location()); err == nil {
		settings.IssueDate = t
	}

	if t, err := time.ParseInLocation(DateLayout, d.DueDate, now.Location()); err == nil {
		settings.DueDate = t
	}

	return settings
}

// invoiceDefaults is the invoice subset of the service defaults.
func invoiceDefaults() map[string]any {
	out := make(map[string]any)

	for key, value := range defaults() {
		if strings.HasPrefix(key, "invoice.") {
			out[key] = value
		}
	}

	return out
}
