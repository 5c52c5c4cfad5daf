// Package seed loads the default notification templates, campus catalog and
// vouchers shipped with the service.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/internal/catalog"
	"github.com/campusfound/lostfound-backend/internal/rewards"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

//go:embed data/*.yaml
var files embed.FS

type templateFile struct {
	Templates []TemplateSpec `yaml:"templates"`
}

// TemplateSpec is one default notification template.
type TemplateSpec struct {
	Type    enums.NotificationType `yaml:"type"`
	Subject string                 `yaml:"subject"`
	Text    string                 `yaml:"text"`
	HTML    string                 `yaml:"html"`
}

type catalogFile struct {
	Categories []struct {
		Name  string `yaml:"name"`
		Icon  string `yaml:"icon"`
		Color string `yaml:"color"`
	} `yaml:"categories"`
	Locations []struct {
		LocationType     enums.LocationType `yaml:"location_type"`
		FloorArea        string             `yaml:"floor_area"`
		SpecificLocation string             `yaml:"specific_location"`
	} `yaml:"locations"`
	Banners []struct {
		Title       string           `yaml:"title"`
		Description string           `yaml:"description"`
		BannerType  enums.BannerType `yaml:"banner_type"`
		URL         string           `yaml:"url"`
		Sponsor     string           `yaml:"sponsor"`
		Priority    int              `yaml:"priority"`
		Days        int              `yaml:"days"`
	} `yaml:"banners"`
}

type voucherFile struct {
	Vouchers []struct {
		Name        string            `yaml:"name"`
		Description string            `yaml:"description"`
		VoucherType enums.VoucherType `yaml:"voucher_type"`
		CoinCost    int               `yaml:"coin_cost"`
		Value       string            `yaml:"value"`
	} `yaml:"vouchers"`
}

// TemplateStore persists notification templates.
type TemplateStore interface {
	ActiveTemplate(ctx context.Context, notificationType enums.NotificationType) (*models.NotificationTemplate, error)
	UpsertTemplate(ctx context.Context, template *models.NotificationTemplate) error
}

// VoucherStore is the subset of the rewards repository and service used for seeding.
type VoucherStore interface {
	FindVoucherByName(ctx context.Context, name string) (*models.Voucher, error)
}

type VoucherCreator interface {
	CreateVoucher(ctx context.Context, input rewards.CreateVoucherInput) (*rewards.VoucherDTO, error)
}

// Counts summarises one seeding run.
type Counts struct {
	Created int
	Updated int
	Skipped int
}

func (c Counts) String() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d", c.Created, c.Updated, c.Skipped)
}

// Seeder writes the embedded seed data. Every step is safe to repeat.
type Seeder struct {
	Templates TemplateStore
	Catalog   catalog.Service
	Vouchers  VoucherStore
	Rewards   VoucherCreator
	Logger    *logger.Logger
}

func (s *Seeder) log() *logger.Logger {
	if s.Logger == nil {
		return logger.Nop()
	}
	return s.Logger
}

// SeedTemplates upserts the default template for every notification type,
// replacing edited copies.
func (s *Seeder) SeedTemplates(ctx context.Context) (Counts, error) {
	var counts Counts
	if s.Templates == nil {
		return counts, errors.New("template store required")
	}
	specs, err := LoadTemplates()
	if err != nil {
		return counts, err
	}
	for _, spec := range specs {
		existing, err := s.Templates.ActiveTemplate(ctx, spec.Type)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return counts, fmt.Errorf("load template %s: %w", spec.Type, err)
		}
		tmpl := &models.NotificationTemplate{
			ID:       uuid.New(),
			Type:     spec.Type,
			Subject:  strings.TrimSpace(spec.Subject),
			TextBody: spec.Text,
			HTMLBody: spec.HTML,
			IsActive: true,
		}
		if err := s.Templates.UpsertTemplate(ctx, tmpl); err != nil {
			return counts, fmt.Errorf("upsert template %s: %w", spec.Type, err)
		}
		if existing == nil {
			counts.Created++
		} else {
			counts.Updated++
		}
	}
	s.log().Info(ctx, "notification templates seeded "+counts.String())
	return counts, nil
}

// SeedCatalog inserts missing categories, locations and banners. Banners start
// today; a positive days value ends them that many days later.
func (s *Seeder) SeedCatalog(ctx context.Context) (Counts, error) {
	var counts Counts
	if s.Catalog == nil {
		return counts, errors.New("catalog service required")
	}
	var file catalogFile
	if err := decode("data/catalog.yaml", &file); err != nil {
		return counts, err
	}
	for _, c := range file.Categories {
		_, created, err := s.Catalog.EnsureCategory(ctx, catalog.CategoryInput{Name: c.Name, Icon: c.Icon, Color: c.Color})
		if err != nil {
			return counts, fmt.Errorf("category %s: %w", c.Name, err)
		}
		counts.tally(created)
	}
	for _, l := range file.Locations {
		input := catalog.LocationInput{LocationType: l.LocationType, FloorArea: l.FloorArea}
		if spot := strings.TrimSpace(l.SpecificLocation); spot != "" {
			input.SpecificLocation = &spot
		}
		_, created, err := s.Catalog.EnsureLocation(ctx, input)
		if err != nil {
			return counts, fmt.Errorf("location %s: %w", l.FloorArea, err)
		}
		counts.tally(created)
	}
	today := time.Now()
	for _, b := range file.Banners {
		input := catalog.BannerInput{
			Title:       b.Title,
			Description: b.Description,
			BannerType:  b.BannerType,
			URL:         b.URL,
			Sponsor:     b.Sponsor,
			StartDate:   today,
			Priority:    b.Priority,
		}
		if b.Days > 0 {
			end := today.AddDate(0, 0, b.Days)
			input.EndDate = &end
		}
		_, created, err := s.Catalog.EnsureBanner(ctx, input)
		if err != nil {
			return counts, fmt.Errorf("banner %s: %w", b.Title, err)
		}
		counts.tally(created)
	}
	s.log().Info(ctx, "catalog seeded "+counts.String())
	return counts, nil
}

// SeedVouchers inserts vouchers whose name is not taken yet.
func (s *Seeder) SeedVouchers(ctx context.Context) (Counts, error) {
	var counts Counts
	if s.Vouchers == nil || s.Rewards == nil {
		return counts, errors.New("voucher store and rewards service required")
	}
	var file voucherFile
	if err := decode("data/vouchers.yaml", &file); err != nil {
		return counts, err
	}
	for _, v := range file.Vouchers {
		_, err := s.Vouchers.FindVoucherByName(ctx, v.Name)
		if err == nil {
			counts.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return counts, fmt.Errorf("find voucher %s: %w", v.Name, err)
		}
		value, err := decimal.NewFromString(v.Value)
		if err != nil {
			return counts, fmt.Errorf("voucher %s value: %w", v.Name, err)
		}
		if _, err := s.Rewards.CreateVoucher(ctx, rewards.CreateVoucherInput{
			Name:        v.Name,
			Description: v.Description,
			VoucherType: v.VoucherType,
			CoinCost:    v.CoinCost,
			Value:       value,
		}); err != nil {
			return counts, fmt.Errorf("create voucher %s: %w", v.Name, err)
		}
		counts.Created++
	}
	s.log().Info(ctx, "vouchers seeded "+counts.String())
	return counts, nil
}

func (c *Counts) tally(created bool) {
	if created {
		c.Created++
	} else {
		c.Skipped++
	}
}

// LoadTemplates parses the embedded default templates.
func LoadTemplates() ([]TemplateSpec, error) {
	var file templateFile
	if err := decode("data/templates.yaml", &file); err != nil {
		return nil, err
	}
	for _, spec := range file.Templates {
		if !spec.Type.IsValid() {
			return nil, fmt.Errorf("template file: unknown notification type %q", spec.Type)
		}
	}
	return file.Templates, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
