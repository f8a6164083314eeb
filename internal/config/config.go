package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "POCKETBOOK_"

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Storage  Storage  `koanf:"storage"`
	Database Database `koanf:"db"`
	Market   Market   `koanf:"market"`
	AMQP     AMQP     `koanf:"amqp"`
	Sheets   Sheets   `koanf:"sheets"`
	Defaults Defaults `koanf:"defaults"`
}

type Storage struct {
	// Backend is either "postgres" or "sqlite".
	Backend string `koanf:"backend"`
	// Path of the SQLite file used by the sqlite backend.
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Market struct {
	BaseUrl string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

type AMQP struct {
	Url      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

type Sheets struct {
	ClientId      string `koanf:"clientid"`
	ClientSecret  string `koanf:"clientsecret"`
	RefreshToken  string `koanf:"refreshtoken"`
	SpreadsheetId string `koanf:"spreadsheetid"`
	Range         string `koanf:"range"`
}

// Defaults seed the settings store on first start.
type Defaults struct {
	Currency string `koanf:"currency"`
	Language string `koanf:"language"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Port: 8181,
		Storage: Storage{
			Backend: BackendSQLite,
			Path:    "./pocketbook.db",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "pocketbook",
			Pass:   "",
			Name:   "pocketbook",
			Schema: "pocketbook",
		},
		Market: Market{
			BaseUrl: "https://api.coingecko.com/api/v3",
			Timeout: 10 * time.Second,
		},
		AMQP: AMQP{
			Exchange: "pocketbook",
		},
		Sheets: Sheets{
			Range: "Budgets!A1",
		},
		Defaults: Defaults{
			Currency: "EUR",
			Language: "en",
		},
	}
}

// Load reads configuration from struct defaults, then the YAML file at path,
// then POCKETBOOK_* environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("could not read .env file: %v", err)
		}
	} else {
		log.Info("Loaded environment from .env")
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
