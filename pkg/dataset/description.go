package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTable is the table holding the retail dataset
const DefaultTable = "Retail"

// Column describes one column of the retail table
type Column struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// descriptionFile is the YAML form of a data description
type descriptionFile struct {
	Engine  string   `yaml:"engine"`
	Table   string   `yaml:"table"`
	Columns []Column `yaml:"columns"`
}

// RetailColumns lists the columns of the retail table in load order
var RetailColumns = []Column{
	{"Customer_ID", "TEXT", "A unique ID that identifies each customer."},
	{"Name", "TEXT", "The customer's name."},
	{"Gender", "TEXT", "The customer's gender: Male, Female."},
	{"Age", "INTEGER", "The customer's age."},
	{"Country", "TEXT", "The country where the customer resides."},
	{"State", "TEXT", "The state where the customer resides."},
	{"City", "TEXT", "The city where the customer resides."},
	{"Zip_Code", "TEXT", "The zip code where the customer resides."},
	{"Product", "TEXT", "The product purchased by the customer."},
	{"Category", "TEXT", "The category of the product."},
	{"Price", "REAL", "The price of the product."},
	{"Purchase_Date", "TEXT", "The date when the purchase was made."},
	{"Quantity", "INTEGER", "The quantity of the product purchased."},
	{"Total_Spent", "REAL", "The total amount spent by the customer."},
}

// DefaultDescription is the data description embedded in prompts
var DefaultDescription = Describe("SQLite3", DefaultTable, RetailColumns)

// Describe renders a data description for the given table
func Describe(engine, table string, columns []Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have access to the following tables and columns in a %s database:\n\n", engine)
	fmt.Fprintf(&sb, "%s Table\n", table)
	for _, col := range columns {
		fmt.Fprintf(&sb, "%s: %s\n", col.Name, col.Description)
	}
	return sb.String()
}

// LoadDescription reads a data description from path, or returns
// DefaultDescription when path is empty. Files ending in .yaml or .yml hold a
// table and its columns and are rendered with Describe; anything else is used
// verbatim.
func LoadDescription(path string) (string, error) {
	if path == "" {
		return DefaultDescription, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read data description: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseDescriptionYAML(data)
	}

	desc := strings.TrimSpace(string(data))
	if desc == "" {
		return "", fmt.Errorf("data description %s is empty", path)
	}
	return desc, nil
}

func parseDescriptionYAML(data []byte) (string, error) {
	var file descriptionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("failed to parse data description: %w", err)
	}
	if file.Table == "" || len(file.Columns) == 0 {
		return "", fmt.Errorf("data description needs a table and at least one column")
	}
	for i, col := range file.Columns {
		if col.Name == "" {
			return "", fmt.Errorf("data description column %d has no name", i)
		}
	}
	if file.Engine == "" {
		file.Engine = "SQLite3"
	}
	return Describe(file.Engine, file.Table, file.Columns), nil
}
