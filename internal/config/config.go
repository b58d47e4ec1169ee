package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"
)

const DefaultPath = "./config/config.ini"

type (
	Config struct {
		SERVICE struct {
			PORT     int
			User     string
			Password string
		}
		SEED struct {
			TestURL      string
			ProdURL      string
			Production   bool
			Username     string
			Password     string
			Timeout      int
			MaxRetries   int
			BackoffMS    int
			SOAPAction   string
			NoSOAPAction bool
		}
		VDI struct {
			XMLVersion         string
			ProviderID         string
			ApplicationID      string
			ApplicationVersion string
			OperatorID         string
			Encoding           string
			Envelope           string
		}
		WAREHOUSE struct {
			DB           string
			TablePrefix  string
			JoinProducts bool
		}
		SNAPSHOT struct {
			Enabled bool
			Dir     string
		}
		BROKER struct {
			Driver string
		}
		STOMP struct {
			Host         string
			Port         int
			User         string
			Password     string
			Topic        string
			ClientID     string
			Subscription string
		}
		KAFKA struct {
			Brokers string
			Topic   string
			GroupID string
		}
		TELEGRAM struct {
			BotToken string
			ChatID   int64
			Debug    int
		}
		LOG struct {
			Dir   string
			Debug int
		}
	}
)

var cfg *Config
var once sync.Once
var path = DefaultPath

// SetPath changes the file GetConfig reads. It has no effect after the first
// GetConfig call.
func SetPath(p string) {
	if p != "" {
		path = p
	}
}

func GetConfig() *Config {
	once.Do(func() {
		logger := log.New(io.MultiWriter(os.Stdout), "MAIN ", log.Ldate|log.Ltime|log.Lshortfile)
		logger.Print("Config:>Read application configurations")

		c, err := Load(path)
		if err != nil {
			logger.Fatalf("Config:>Failed to parse gcfg data: %s", err)
		}
		logger.Print("Config:>Config is read")
		cfg = c
	})

	return cfg
}

// Default returns a config populated with the values used when the ini file
// leaves a setting out.
func Default() *Config {
	c := new(Config)
	c.SERVICE.PORT = 8080
	c.SEED.TestURL = "https://qacore.mycantaloupe.com/VdiMicromarket.NewMarkets/SecureService.svc"
	c.SEED.ProdURL = "https://mkt.mycantaloupe.com/VdiMicromarket/SecureService.svc"
	c.SEED.Timeout = 30
	c.SEED.MaxRetries = 3
	c.SEED.BackoffMS = 500
	c.VDI.XMLVersion = "1"
	c.VDI.ProviderID = "SWIFT"
	c.VDI.ApplicationID = "SyncVdiMicromarkets.Uploader"
	c.VDI.ApplicationVersion = "232.0.4572.0"
	c.VDI.OperatorID = "nm_swyft"
	c.VDI.Encoding = "UTF-8"
	c.VDI.Envelope = "dataexchange"
	c.WAREHOUSE.DB = "vdi.db"
	c.WAREHOUSE.TablePrefix = "vdi_"
	c.BROKER.Driver = "stomp"
	c.STOMP.Host = "localhost"
	c.STOMP.Port = 61613
	c.STOMP.Topic = "vdi"
	c.STOMP.ClientID = "seed-vdi-relay"
	c.STOMP.Subscription = "seed-vdi-relay"
	c.KAFKA.Topic = "vdi"
	c.KAFKA.GroupID = "seed-vdi-relay"
	c.SNAPSHOT.Dir = "snapshots"
	c.LOG.Dir = "logs"
	return c
}

// Load reads an ini file over the defaults and then applies the credential
// environment overrides.
func Load(p string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, p); err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", p)
	}
	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadString is Load for an in-memory ini document.
func LoadString(ini string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, ini); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SEED_USERNAME"); v != "" {
		c.SEED.Username = v
	}
	if v := os.Getenv("SEED_PASSWORD"); v != "" {
		c.SEED.Password = v
	}
	if v := os.Getenv("VDI_USER"); v != "" {
		c.SERVICE.User = v
	}
	if v := os.Getenv("VDI_PASS"); v != "" {
		c.SERVICE.Password = v
	}
}

func (c *Config) validate() error {
	switch c.VDI.Envelope {
	case "dataexchange", "raw":
	default:
		return errors.Errorf("VDI.Envelope must be dataexchange or raw, got %q", c.VDI.Envelope)
	}
	switch c.BROKER.Driver {
	case "stomp", "kafka":
	default:
		return errors.Errorf("BROKER.Driver must be stomp or kafka, got %q", c.BROKER.Driver)
	}
	if c.SEED.MaxRetries < 0 {
		return errors.New("SEED.MaxRetries must not be negative")
	}
	return nil
}

// SeedURL is the endpoint selected by SEED.Production.
func (c *Config) SeedURL() string {
	if c.SEED.Production {
		return c.SEED.ProdURL
	}
	return c.SEED.TestURL
}

// SOAPAction returns nil when the configured action should fall back to the
// default, and a pointer to "" when the header is to be sent empty.
func (c *Config) SOAPAction() *string {
	if c.SEED.NoSOAPAction {
		empty := ""
		return &empty
	}
	if c.SEED.SOAPAction == "" {
		return nil
	}
	a := c.SEED.SOAPAction
	return &a
}

func (c *Config) KafkaBrokers() []string {
	var out []string
	for _, b := range strings.Split(c.KAFKA.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) StompAddr() string {
	return fmt.Sprintf("%s:%d", c.STOMP.Host, c.STOMP.Port)
}
