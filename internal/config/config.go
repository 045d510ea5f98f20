// Package config loads budgetbook settings from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/buckets"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/carryforward"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/classify"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/pocketsmith"
)

// Config holds every setting the commands use.
type Config struct {
	Paths        Paths        `mapstructure:"paths"`
	Year         int          `mapstructure:"year"`
	Master       Master       `mapstructure:"master"`
	Labels       Labels       `mapstructure:"labels"`
	CarryForward CarryForward `mapstructure:"carry_forward"`
	Buckets      Buckets      `mapstructure:"buckets"`
	Classify     Classify     `mapstructure:"classify"`
	PocketSmith  PocketSmith  `mapstructure:"pocketsmith"`
}

// Paths locates the workbooks on disk.
type Paths struct {
	SpreadsheetDir string `mapstructure:"spreadsheet_dir"`
	// TransactionDir defaults to "<spreadsheet_dir>/<year> Transactions".
	TransactionDir string `mapstructure:"transaction_dir"`
	// BackupDir defaults to "<spreadsheet_dir>/Backup".
	BackupDir   string `mapstructure:"backup_dir"`
	SummaryFile string `mapstructure:"summary_file"`
}

// Master configures the yearly master workbook.
type Master struct {
	// NameTemplate names the master; "{year}" is replaced by the year.
	NameTemplate string             `mapstructure:"name_template"`
	MaxColumn    int                `mapstructure:"max_column"`
	PinnedWidths map[string]float64 `mapstructure:"pinned_widths"`
	CFRange      string             `mapstructure:"cf_range"`
}

// Labels configures participants and highlight colors.
type Labels struct {
	Participants []string          `mapstructure:"participants"`
	Shared       string            `mapstructure:"shared"`
	Colors       map[string]string `mapstructure:"colors"`
	DefaultColor string            `mapstructure:"default_color"`
}

// CarryForward names the summary workbook sheets.
type CarryForward struct {
	BalanceSheet     string `mapstructure:"balance_sheet"`
	BudgetSheet      string `mapstructure:"budget_sheet"`
	ExternalWorkbook string `mapstructure:"external_workbook"`
}

// Buckets configures the bucket ledger.
type Buckets struct {
	Sheet string          `mapstructure:"sheet"`
	Rules []classify.Rule `mapstructure:"rules"`
}

// BankRule labels one bank category. An empty Label means no label.
type BankRule struct {
	Category string `mapstructure:"category"`
	Label    string `mapstructure:"label"`
}

// Classify configures transaction labeling.
type Classify struct {
	BankRules []BankRule `mapstructure:"bank_rules"`
}

// PocketSmith configures the transaction source.
type PocketSmith struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	CreditAccountID string        `mapstructure:"credit_account_id"`
	DebitAccountID  string        `mapstructure:"debit_account_id"`
	PageTimeout     time.Duration `mapstructure:"page_timeout"`
}

// SetDefaults registers the default value of every scalar key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("paths.spreadsheet_dir", ".")
	v.SetDefault("paths.summary_file", "summary_updated.xlsm")
	v.SetDefault("master.name_template", "{year} Monthly Spend.xlsx")
	v.SetDefault("master.max_column", budgetbook.DefaultMaxColumn)
	v.SetDefault("master.pinned_widths", map[string]float64{"E": 24})
	v.SetDefault("master.cf_range", budgetbook.DefaultCFRange)
	v.SetDefault("labels.participants", []string{"Jack", "Ruby"})
	v.SetDefault("labels.shared", "Both")
	v.SetDefault("labels.colors", map[string]string{"Ruby": "FF2C55", "Jack": "5582AE", "Both": "00FF00"})
	v.SetDefault("labels.default_color", "FFFF00")
	v.SetDefault("carry_forward.balance_sheet", carryforward.DefaultBalanceSheet)
	v.SetDefault("carry_forward.budget_sheet", carryforward.DefaultBudgetSheet)
	v.SetDefault("buckets.sheet", buckets.DefaultSheet)
	v.SetDefault("pocketsmith.base_url", pocketsmith.DefaultBaseURL)
	v.SetDefault("pocketsmith.page_timeout", pocketsmith.DefaultPageTimeout)
}

// DefaultBankRules reproduces the long-standing labeling table.
func DefaultBankRules() []BankRule {
	return []BankRule{
		{Category: "Dining"},
		{Category: "Travel"},
		{Category: "Recreation", Label: "Jack"},
		{Category: "Professional Services", Label: "Jack"},
	}
}

// Load decodes v into a Config, fills derived defaults, and expands paths.
// now supplies the year when none is configured.
func Load(v *viper.Viper, now time.Time) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Year == 0 {
		cfg.Year = now.Year()
	}
	if cfg.PocketSmith.APIKey == "" {
		cfg.PocketSmith.APIKey = os.Getenv("POCKETSMITH_API_KEY")
	}
	if len(cfg.Classify.BankRules) == 0 {
		cfg.Classify.BankRules = DefaultBankRules()
	}
	if len(cfg.Buckets.Rules) == 0 {
		cfg.Buckets.Rules = classify.DefaultBucketRules()
	}

	cfg.Paths.SpreadsheetDir = ExpandPath(cfg.Paths.SpreadsheetDir)
	if cfg.Paths.TransactionDir == "" {
		cfg.Paths.TransactionDir = filepath.Join(cfg.Paths.SpreadsheetDir, fmt.Sprintf("%d Transactions", cfg.Year))
	}
	if cfg.Paths.BackupDir == "" {
		cfg.Paths.BackupDir = filepath.Join(cfg.Paths.SpreadsheetDir, "Backup")
	}
	cfg.Paths.TransactionDir = ExpandPath(cfg.Paths.TransactionDir)
	cfg.Paths.BackupDir = ExpandPath(cfg.Paths.BackupDir)
	cfg.Paths.SummaryFile = cfg.resolve(ExpandPath(cfg.Paths.SummaryFile))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if c.Master.MaxColumn < 1 {
		errs = append(errs, fmt.Errorf("master.max_column must be positive, got %d", c.Master.MaxColumn))
	}
	if !strings.Contains(c.Master.NameTemplate, "{year}") {
		errs = append(errs, fmt.Errorf("master.name_template %q has no {year} placeholder", c.Master.NameTemplate))
	}
	if len(c.Labels.Participants) == 0 {
		errs = append(errs, errors.New("labels.participants is empty"))
	}
	return errors.Join(errs...)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.SpreadsheetDir, path)
}

// MasterPath returns the yearly master workbook path.
func (c *Config) MasterPath() string {
	name := strings.ReplaceAll(c.Master.NameTemplate, "{year}", strconv.Itoa(c.Year))
	return filepath.Join(c.Paths.SpreadsheetDir, name)
}

// ExternalWorkbook returns the workbook name written into budget references,
// which defaults to the master workbook's file name.
func (c *Config) ExternalWorkbook() string {
	if c.CarryForward.ExternalWorkbook != "" {
		return c.CarryForward.ExternalWorkbook
	}
	return filepath.Base(c.MasterPath())
}

// Layout returns the block layout of the master workbook. Viper lowercases
// map keys, so pinned column names are upper-cased here.
func (c *Config) Layout() budgetbook.Layout {
	pinned := make(map[string]float64, len(c.Master.PinnedWidths))
	for col, w := range c.Master.PinnedWidths {
		pinned[strings.ToUpper(col)] = w
	}
	return budgetbook.Layout{MaxColumn: c.Master.MaxColumn, PinnedWidths: pinned, CFRange: c.Master.CFRange}
}

// Palette returns the label colors keyed by the configured label spelling.
// Color keys are matched case-insensitively because viper lowercases them.
func (c *Config) Palette() models.LabelPalette {
	byLower := make(map[string]string, len(c.Labels.Colors))
	for k, v := range c.Labels.Colors {
		byLower[strings.ToLower(k)] = v
	}
	colors := make(map[string]string, len(byLower))
	for _, label := range c.LabelOrder() {
		if color, ok := byLower[strings.ToLower(label)]; ok {
			colors[label] = color
			delete(byLower, strings.ToLower(label))
		}
	}
	for k, v := range byLower {
		colors[k] = v
	}
	return models.LabelPalette{Colors: colors, Default: c.Labels.DefaultColor}
}

// LabelOrder returns the participants followed by the shared label.
func (c *Config) LabelOrder() []string {
	labels := append([]string(nil), c.Labels.Participants...)
	if c.Labels.Shared != "" {
		labels = append(labels, c.Labels.Shared)
	}
	return labels
}

// Labeler builds the bank-category labeler.
func (c *Config) Labeler() classify.Labeler {
	l := classify.Labeler{Participants: make(map[string]string), Shared: c.Labels.Shared}
	for _, r := range c.Classify.BankRules {
		if r.Label == "" {
			l.Unlabeled = append(l.Unlabeled, r.Category)
			continue
		}
		l.Participants[r.Category] = r.Label
	}
	return l
}

// OwnerColor is the fill of the debit export, the first participant's color.
func (c *Config) OwnerColor() string {
	color, _ := c.Palette().Color(c.Labels.Participants[0])
	return color
}
