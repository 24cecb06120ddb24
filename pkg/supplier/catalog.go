package supplier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"gopkg.in/yaml.v3"
)

// Config describes one supplier connector: which rule set it uses, where it
// ships from and what it offers.
type Config struct {
	Kind      string                    `yaml:"kind" validate:"required"`
	Name      string                    `yaml:"name" validate:"required"`
	OriginZip string                    `yaml:"origin_zip"`
	Methods   []shipping.ShippingMethod `yaml:"methods" validate:"dive"`
}

// File is the supplier catalog file layout.
type File struct {
	Suppliers []Config `yaml:"suppliers"`
}

//go:embed suppliers.yaml
var defaultCatalog []byte

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func catalogValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Report yaml keys so errors point at the catalog file
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// LoadFile reads supplier catalogs from path, or the built-in catalogs when
// path is empty.
func LoadFile(path string) ([]Config, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading supplier catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks supplier catalogs. Every supplier needs a kind and
// a unique name, and every method an id, a type and a courier.
func Parse(data []byte) ([]Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing supplier catalog: %w", err)
	}

	if len(f.Suppliers) == 0 {
		return nil, shipping.NewConfigurationError("supplier catalog", "", "no suppliers declared")
	}

	seen := make(map[string]bool, len(f.Suppliers))
	for i, s := range f.Suppliers {
		if err := catalogValidator().Struct(s); err != nil {
			component := s.Name
			if component == "" {
				component = fmt.Sprintf("suppliers[%d]", i)
			}
			return nil, validationError(component, err)
		}
		if seen[s.Name] {
			return nil, shipping.NewConfigurationError(s.Name, "name", "declared twice")
		}
		seen[s.Name] = true
	}
	return f.Suppliers, nil
}

func validationError(component string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return shipping.NewConfigurationError(component, "", err.Error())
	}

	e := verrs[0]
	// Drop the root struct name from the namespace
	setting := e.Namespace()
	if _, rest, ok := strings.Cut(setting, "."); ok {
		setting = rest
	}

	switch e.Tag() {
	case "required":
		return shipping.NewConfigurationError(component, setting, "is empty")
	case "gte":
		return shipping.NewConfigurationError(component, setting, "must be at least "+e.Param())
	default:
		return shipping.NewConfigurationError(component, setting, "failed "+e.Tag()+" check")
	}
}
