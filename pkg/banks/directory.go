// Package banks is the read-only directory of payout destinations: banks and
// mobile-money operators per country, with account-number formats.
package banks

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/chris/remittance-ledger/pkg/money"
	"gopkg.in/yaml.v3"
)

//go:embed directory.yaml
var defaultDirectory []byte

var (
	// ErrUnsupportedCountry is returned for countries the directory does not cover.
	ErrUnsupportedCountry = errors.New("unsupported country")
	// ErrBankNotFound is returned when a bank or operator code is unknown.
	ErrBankNotFound = errors.New("bank not found")
	// ErrInvalidAccountNumber is returned when an account number does not match the country format.
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

// Bank is a payout destination institution.
type Bank struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

type country struct {
	Currency       money.Currency `yaml:"currency"`
	AccountPattern string         `yaml:"account_pattern"`
	Banks          []Bank         `yaml:"banks"`
	MobileMoney    []Bank         `yaml:"mobile_money"`

	pattern *regexp.Regexp
}

// Directory answers bank and mobile-money lookups.
type Directory struct {
	countries map[string]*country
}

// Load parses a YAML directory.
func Load(data []byte) (*Directory, error) {
	var raw struct {
		Countries map[string]*country `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse bank directory: %w", err)
	}
	for code, c := range raw.Countries {
		re, err := regexp.Compile(c.AccountPattern)
		if err != nil {
			return nil, fmt.Errorf("bank directory: bad account pattern for %s: %w", code, err)
		}
		c.pattern = re
	}
	return &Directory{countries: raw.Countries}, nil
}

var (
	defaultOnce sync.Once
	defaultDir  *Directory
)

// Default returns the embedded directory.
func Default() *Directory {
	defaultOnce.Do(func() {
		d, err := Load(defaultDirectory)
		if err != nil {
			panic(err)
		}
		defaultDir = d
	})
	return defaultDir
}

func (d *Directory) country(code string) (*country, error) {
	c, ok := d.countries[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, code)
	}
	return c, nil
}

// Countries lists the supported country codes in sorted order.
func (d *Directory) Countries() []string {
	out := make([]string, 0, len(d.countries))
	for code := range d.countries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Currency returns the local currency of a country.
func (d *Directory) Currency(countryCode string) (money.Currency, error) {
	c, err := d.country(countryCode)
	if err != nil {
		return "", err
	}
	return c.Currency, nil
}

// ListBanks returns the banks of a country.
func (d *Directory) ListBanks(countryCode string) ([]Bank, error) {
	c, err := d.country(countryCode)
	if err != nil {
		return nil, err
	}
	return append([]Bank(nil), c.Banks...), nil
}

// FindBank looks up a bank by code.
func (d *Directory) FindBank(countryCode, bankCode string) (Bank, error) {
	c, err := d.country(countryCode)
	if err != nil {
		return Bank{}, err
	}
	for _, b := range c.Banks {
		if b.Code == bankCode {
			return b, nil
		}
	}
	return Bank{}, fmt.Errorf("%w: %s in %s", ErrBankNotFound, bankCode, countryCode)
}

// ValidateAccountNumber checks number against the country's account format.
func (d *Directory) ValidateAccountNumber(countryCode, number string) error {
	c, err := d.country(countryCode)
	if err != nil {
		return err
	}
	if !c.pattern.MatchString(number) {
		return fmt.Errorf("%w for %s", ErrInvalidAccountNumber, strings.ToUpper(countryCode))
	}
	return nil
}

// MobileMoneyProviders returns the mobile-money operators of a country.
func (d *Directory) MobileMoneyProviders(countryCode string) ([]Bank, error) {
	c, err := d.country(countryCode)
	if err != nil {
		return nil, err
	}
	return append([]Bank(nil), c.MobileMoney...), nil
}

// FindMobileMoneyProvider looks up an operator by code, case-insensitively.
func (d *Directory) FindMobileMoneyProvider(countryCode, providerCode string) (Bank, error) {
	c, err := d.country(countryCode)
	if err != nil {
		return Bank{}, err
	}
	for _, p := range c.MobileMoney {
		if strings.EqualFold(p.Code, providerCode) {
			return p, nil
		}
	}
	return Bank{}, fmt.Errorf("%w: mobile money provider %s in %s", ErrBankNotFound, providerCode, countryCode)
}
