package edr

import (
	"io"

	"github.com/diwise/edr-server/pkg/edr/types"
	yaml "gopkg.in/yaml.v2"
)

type serviceConfig struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Provider    struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"provider"`
	Contact struct {
		Email        string `yaml:"email"`
		Phone        string `yaml:"phone"`
		Fax          string `yaml:"fax"`
		Hours        string `yaml:"hours"`
		Instructions string `yaml:"instructions"`
		Address      string `yaml:"address"`
		Postcode     string `yaml:"postcode"`
		City         string `yaml:"city"`
		State        string `yaml:"state"`
		Country      string `yaml:"country"`
	} `yaml:"contact"`
}

// LoadServiceMetadata reads the service description used by the
// capabilities document from a YAML config file.
func LoadServiceMetadata(data io.Reader) (types.ServiceMetadata, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return types.ServiceMetadata{}, err
	}

	cfg := &serviceConfig{}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return types.ServiceMetadata{}, err
	}

	return types.ServiceMetadata{
		Title:       cfg.Title,
		Description: cfg.Description,
		Keywords:    cfg.Keywords,
		Provider: types.Provider{
			Name: cfg.Provider.Name,
			URL:  cfg.Provider.URL,
		},
		Contact: types.Contact{
			Email:        cfg.Contact.Email,
			Phone:        cfg.Contact.Phone,
			Fax:          cfg.Contact.Fax,
			Hours:        cfg.Contact.Hours,
			Instructions: cfg.Contact.Instructions,
			Address:      cfg.Contact.Address,
			Postcode:     cfg.Contact.Postcode,
			City:         cfg.Contact.City,
			State:        cfg.Contact.State,
			Country:      cfg.Contact.Country,
		},
	}, nil
}
