package guestbook

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/putto11262002/guestbook/pkg/logger"
)

// Mode selects the defaults of the process being configured.
type Mode string

const (
	// ServerMode runs the HTTP server, backed by SQLite unless configured otherwise.
	ServerMode Mode = "server"
	// LambdaMode runs as a Lambda function, backed by DynamoDB unless configured otherwise.
	LambdaMode Mode = "lambda"
)

type Driver string

const (
	DynamoDBDriver Driver = "dynamodb"
	SQLiteDriver   Driver = "sqlite"
	BadgerDriver   Driver = "badger"
)

const DefaultTableName = "guestbook_table"

type Config struct {
	Mode Mode `mapstructure:"-"`
	// Port is the Port number to listen on. The default is 8080.
	Port int `validate:"required,port"`
	// Host is the address to listen on. The default is 0.0.0.0.
	Host string `validate:"required"`
	// ShutdownTimeout bounds the graceful shutdown of the HTTP server. The default is 20s.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	TLS struct {
		// Crt and Key are paths to a PEM certificate and key. TLS is enabled when both are set.
		Crt string `validate:"required_with=Key"`
		Key string `validate:"required_with=Crt"`
	}
	// TableName is the table messages are stored in. The default is guestbook_table.
	// It may not contain a slash, which separates tables in the badger key space.
	TableName string `mapstructure:"table_name" validate:"required,excludes=/"`
	Store     struct {
		// Driver is one of dynamodb, sqlite or badger.
		Driver Driver `validate:"required,oneof=dynamodb sqlite badger"`
		// PageSize is the number of items read per scan request.
		PageSize int `mapstructure:"page_size" validate:"gte=0,lte=10000"`
	}
	SQLite struct {
		// File is the path to the SQLite database file.
		File string `validate:"required"`
	}
	Badger struct {
		// Dir is the directory badger keeps its files in. Ignored when InMemory is set.
		Dir      string `validate:"required"`
		InMemory bool   `mapstructure:"in_memory"`
	}
	DynamoDB struct {
		// Region overrides the region resolved by the AWS SDK.
		Region string
		// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB local.
		Endpoint string `validate:"omitempty,url"`
	}
	Log struct {
		Level  slog.Level
		Format logger.Format `validate:"required,oneof=text json"`
	}
	valid bool
}

// LoadConfig loads the configuration from the config file and environment variables.
func LoadConfig(mode Mode) (*Config, error) {
	loader := &EnvConfigLoader{Mode: mode, ConfigPaths: []string{"."}}
	return loader.Load()
}

func (c *Config) Validate() error {
	if c.valid {
		return nil
	}
	err := validate.Struct(c)
	if err != nil {
		return err
	}
	c.valid = true
	return nil
}

func FormatValidationErrors(err error) string {

	errors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ""
	}
	trans, _ := uniTrans.GetTranslator("en")
	translated := errors.Translate(trans)

	var sb strings.Builder
	for _, v := range slices.Sorted(maps.Values(translated)) {
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (c *Config) TLSEnabled() bool {
	return c.TLS.Crt != "" && c.TLS.Key != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
