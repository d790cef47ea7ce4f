package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrSectionNotFound is returned when no row exists for a section number.
var ErrSectionNotFound = errors.New("section not found")

// SectionLookup resolves statutory text by section number.
type SectionLookup interface {
	LookupSection(number string) (*Section, error)
}

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Section{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertSections inserts or refreshes the given sections.
func (d *Database) UpsertSections(sections []Section) error {
	if len(sections) == 0 {
		return nil
	}
	for i := range sections {
		sections[i].Number = NormalizeSectionNumber(sections[i].Number)
		if sections[i].Number == "" {
			return fmt.Errorf("section %d has no number", i)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "text", "updated_at"}),
	}).CreateInBatches(sections, 250).Error
}

// LookupSection returns the stored section for number.
func (d *Database) LookupSection(number string) (*Section, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	var section Section
	err := d.gorm.Where("number = ?", NormalizeSectionNumber(number)).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup section %s: %w", number, err)
	}
	return &section, nil
}

// CountSections returns the number of stored sections.
func (d *Database) CountSections() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Section{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NormalizeSectionNumber strips an "IPC" prefix and surrounding space, and
// drops leading zeros from purely numeric section numbers.
func NormalizeSectionNumber(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 3 && strings.EqualFold(value[:3], "ipc") {
		value = strings.TrimSpace(value[3:])
	}
	if n, err := strconv.Atoi(value); err == nil {
		return strconv.Itoa(n)
	}
	return strings.ToUpper(value)
}

// LoadSectionsFile reads a JSON array of {section_number, section_title, section_text}.
// Section numbers may be encoded as strings or numbers.
func LoadSectionsFile(path string) ([]Section, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read sections file: %w", err)
	}
	var raw []struct {
		Number json.RawMessage `json:"section_number"`
		Title  string          `json:"section_title"`
		Text   string          `json:"section_text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal sections file %s: %w", path, err)
	}
	sections := make([]Section, 0, len(raw))
	for _, r := range raw {
		number := NormalizeSectionNumber(strings.Trim(string(r.Number), `"`))
		if number == "" || number == "NULL" {
			continue
		}
		sections = append(sections, Section{Number: number, Title: strings.TrimSpace(r.Title), Text: r.Text})
	}
	return sections, nil
}
