package service

import (
	"bytes"
	"strings"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	"github.com/outdoortrails/trails-hub-backend/pkg/gearsheet"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const importBatchSize = 500

type GearSpecsInput struct {
	Brand    string   `json:"brand" validate:"max=100"`
	WeightG  *float64 `json:"weight_g" validate:"omitempty,gte=0"`
	PriceTWD *float64 `json:"price_twd" validate:"omitempty,gte=0"`
	BuyLink  string   `json:"buy_link" validate:"omitempty,url"`
	LinkName string   `json:"link_name" validate:"max=100"`
}

// GearInput is used for both create and full update
type GearInput struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Category    string         `json:"category" validate:"max=20"`
	Description string         `json:"description" validate:"max=2000"`
	ImageURL    string         `json:"image_url" validate:"omitempty,url"`
	Specs       GearSpecsInput `json:"specs"`
	Tags        []string       `json:"tags" validate:"max=20,dive,max=30"`
}

func (in *GearInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Specs.Brand = strings.TrimSpace(in.Specs.Brand)
	in.Specs.BuyLink = strings.TrimSpace(in.Specs.BuyLink)
	in.Specs.LinkName = strings.TrimSpace(in.Specs.LinkName)
	in.Tags = model.StringArray(in.Tags).Normalize()
}

func (in *GearInput) apply(gear *model.Gear) {
	gear.Name = in.Name
	gear.Category = in.Category
	gear.Description = in.Description
	gear.ImageURL = in.ImageURL
	gear.Specs = datatypes.NewJSONType(model.GearSpecs{
		Brand:    in.Specs.Brand,
		WeightG:  in.Specs.WeightG,
		PriceTWD: in.Specs.PriceTWD,
		BuyLink:  in.Specs.BuyLink,
		LinkName: in.Specs.LinkName,
	})
	gear.Tags = model.StringArray(in.Tags)
}

type ImportResult struct {
	GearCreated       int      `json:"gear_created"`
	CategoriesCreated []string `json:"categories_created"`
}

type GearService interface {
	CreateGear(userID string, input GearInput) (*model.Gear, error)
	GetGear(userID, gearID string) (*model.Gear, error)
	// ListGear filters by category name when category is non-nil
	ListGear(userID string, category *string) ([]model.Gear, error)
	UpdateGear(userID, gearID string, input GearInput) (*model.Gear, error)
	DeleteGear(userID, gearID string) error
	ExportGear(userID string) (*bytes.Buffer, error)
	ImportGear(userID string, rows []gearsheet.Row) (*ImportResult, error)
}

type gearService struct {
	db           *gorm.DB
	gearRepo     repository.GearRepository
	categoryRepo repository.CategoryRepository
	validator    *validation.Validator
	events       EventPublisher
}

func NewGearService(
	db *gorm.DB,
	gearRepo repository.GearRepository,
	categoryRepo repository.CategoryRepository,
	validator *validation.Validator,
	events EventPublisher,
) GearService {
	return &gearService{
		db:           db,
		gearRepo:     gearRepo,
		categoryRepo: categoryRepo,
		validator:    validator,
		events:       publisherOrNoop(events),
	}
}

func (s *gearService) validate(userID string, input *GearInput) error {
	input.normalize()
	if err := s.validator.Validate(input); err != nil {
		return err
	}
	if input.Category == "" {
		return nil
	}

	exists, err := s.categoryRepo.NameTaken(userID, input.Category, "")
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewValidationFields("validation failed", map[string]string{
			"category": "must be one of your categories",
		})
	}
	return nil
}

func (s *gearService) CreateGear(userID string, input GearInput) (*model.Gear, error) {
	if err := s.validate(userID, &input); err != nil {
		return nil, err
	}

	gear := &model.Gear{OwnerID: userID}
	input.apply(gear)
	if err := s.gearRepo.Create(gear); err != nil {
		return nil, err
	}

	logger.Info("Gear created", map[string]interface{}{
		"user_id":  userID,
		"gear_id":  gear.ID,
		"category": gear.Category,
	})
	s.events.Publish(userID, EventGearChanged, gear)
	return gear, nil
}

func (s *gearService) GetGear(userID, gearID string) (*model.Gear, error) {
	return loadOwnedGear(s.gearRepo, userID, gearID)
}

func (s *gearService) ListGear(userID string, category *string) ([]model.Gear, error) {
	if category != nil {
		trimmed := strings.TrimSpace(*category)
		category = &trimmed
	}

	gear, err := s.gearRepo.FindWithFilter(repository.GearFilter{
		OwnerID:  userID,
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	return gear, nil
}

func (s *gearService) UpdateGear(userID, gearID string, input GearInput) (*model.Gear, error) {
	if err := s.validate(userID, &input); err != nil {
		return nil, err
	}
	gear, err := loadOwnedGear(s.gearRepo, userID, gearID)
	if err != nil {
		return nil, err
	}

	input.apply(gear)
	if err := s.gearRepo.Update(gear); err != nil {
		return nil, err
	}

	logger.Info("Gear updated", map[string]interface{}{
		"user_id": userID,
		"gear_id": gear.ID,
	})
	s.events.Publish(userID, EventGearChanged, gear)
	return gear, nil
}

// DeleteGear removes the gear row; its trip links go with it
func (s *gearService) DeleteGear(userID, gearID string) error {
	if _, err := loadOwnedGear(s.gearRepo, userID, gearID); err != nil {
		return err
	}
	if err := s.gearRepo.Delete(gearID); err != nil {
		return err
	}

	logger.Info("Gear deleted", map[string]interface{}{
		"user_id": userID,
		"gear_id": gearID,
	})
	s.events.Publish(userID, EventGearDeleted, map[string]interface{}{"gear_id": gearID})
	return nil
}

func (s *gearService) ExportGear(userID string) (*bytes.Buffer, error) {
	gear, err := s.gearRepo.FindWithFilter(repository.GearFilter{OwnerID: userID})
	if err != nil {
		return nil, err
	}

	rows := make([]gearsheet.Row, 0, len(gear))
	for _, g := range gear {
		specs := g.Specs.Data()
		rows = append(rows, gearsheet.Row{
			Name:        g.Name,
			Category:    g.Category,
			Brand:       specs.Brand,
			WeightG:     specs.WeightG,
			PriceTWD:    specs.PriceTWD,
			BuyLink:     specs.BuyLink,
			LinkName:    specs.LinkName,
			Description: g.Description,
			ImageURL:    g.ImageURL,
			Tags:        g.Tags,
		})
	}

	logger.Info("Exporting gear workbook", map[string]interface{}{
		"user_id": userID,
		"count":   len(rows),
	})
	return gearsheet.Write(rows)
}

// ImportGear creates one gear row per sheet row, creating any category the
// owner does not have yet. Every row is validated before anything is written.
func (s *gearService) ImportGear(userID string, rows []gearsheet.Row) (*ImportResult, error) {
	inputs := make([]GearInput, 0, len(rows))
	for i, row := range rows {
		input := GearInput{
			Name:        row.Name,
			Category:    row.Category,
			Description: row.Description,
			ImageURL:    row.ImageURL,
			Tags:        row.Tags,
			Specs: GearSpecsInput{
				Brand:    row.Brand,
				WeightG:  row.WeightG,
				PriceTWD: row.PriceTWD,
				BuyLink:  row.BuyLink,
				LinkName: row.LinkName,
			},
		}
		input.normalize()
		if err := s.validator.Validate(&input); err != nil {
			logger.Warn("Import row rejected", map[string]interface{}{
				"user_id": userID,
				"row":     i + 2,
			})
			return nil, err
		}
		inputs = append(inputs, input)
	}

	result := &ImportResult{CategoriesCreated: []string{}}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)
		gearRepo := s.gearRepo.WithTx(tx)

		existing, err := categoryRepo.FindByOwner(userID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, c := range existing {
			known[c.Name] = true
		}

		position, err := categoryRepo.MaxPosition(userID)
		if err != nil {
			return err
		}

		gear := make([]model.Gear, 0, len(inputs))
		for _, input := range inputs {
			if input.Category != "" && !known[input.Category] {
				position++
				if err := categoryRepo.Create(&model.Category{
					OwnerID:  userID,
					Name:     input.Category,
					Position: position,
				}); err != nil {
					return err
				}
				known[input.Category] = true
				result.CategoriesCreated = append(result.CategoriesCreated, input.Category)
			}

			g := model.Gear{OwnerID: userID}
			input.apply(&g)
			gear = append(gear, g)
		}

		if err := gearRepo.BulkCreate(gear, importBatchSize); err != nil {
			return err
		}
		result.GearCreated = len(gear)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Gear imported", map[string]interface{}{
		"user_id":            userID,
		"gear_created":       result.GearCreated,
		"categories_created": len(result.CategoriesCreated),
	})
	return result, nil
}
