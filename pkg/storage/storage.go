package storage

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config describes the relational database backing the CMS.
type Config struct {
	Driver       string `yaml:"driver" env:"CMS_STORAGE_DRIVER" env-default:"sqlite3"`
	DSN          string `yaml:"dsn" env:"CMS_STORAGE_DSN" env-default:"file:teamcms.db?cache=shared&_fk=1"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"CMS_STORAGE_MAX_OPEN_CONNS"`
	Debug        bool   `yaml:"debug" env:"CMS_STORAGE_DEBUG"`
}

// NormalizedDriver maps driver aliases (pg, postgresql, sqlite) to the
// registered database/sql driver names.
func (c Config) NormalizedDriver() string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "pg", "postgres", "postgresql":
		return DriverPostgres
	case "sqlite", "sqlite3":
		return DriverSQLite
	default:
		return strings.ToLower(strings.TrimSpace(c.Driver))
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.Driver, validation.Required, validation.By(func(any) error {
			return validation.Validate(c.NormalizedDriver(), validation.In(DriverPostgres, DriverSQLite))
		})),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
}
