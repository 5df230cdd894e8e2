package businessflow

import (
	"context"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CatalogFlow serves the material catalog: materials, their groups, the
// standard-grade seed and the processing rules.
type CatalogFlow interface {
	ListMaterials(ctx context.Context, category *string, groupID *uint, includeInactive bool) (*dto.ListMaterialsResponse, error)
	CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialDTO, error)
	SeedMaterials(ctx context.Context, metadata *ClientMetadata) (*dto.SeedMaterialsResponse, error)
	ListMaterialGroups(ctx context.Context, category *string, includeInactive bool) (*dto.ListMaterialGroupsResponse, error)
	ListProcessingOptions(ctx context.Context) (*dto.ListProcessingOptionsResponse, error)
}

// CatalogFlowImpl implements CatalogFlow.
type CatalogFlowImpl struct {
	materialRepo      repository.MaterialRepository
	groupRepo         repository.MaterialGroupRepository
	processingOptRepo repository.ProcessingOptionRepository
	db                *gorm.DB
}

// NewCatalogFlow creates a new catalog flow.
func NewCatalogFlow(
	materialRepo repository.MaterialRepository,
	groupRepo repository.MaterialGroupRepository,
	processingOptRepo repository.ProcessingOptionRepository,
	db *gorm.DB,
) CatalogFlow {
	return &CatalogFlowImpl{
		materialRepo:      materialRepo,
		groupRepo:         groupRepo,
		processingOptRepo: processingOptRepo,
		db:                db,
	}
}

// ListMaterials returns catalog materials in display order, with their group
// resolved. Inactive materials are hidden unless asked for.
func (f *CatalogFlowImpl) ListMaterials(ctx context.Context, category *string, groupID *uint, includeInactive bool) (*dto.ListMaterialsResponse, error) {
	filter := models.MaterialFilter{
		Category: category,
		GroupID:  groupID,
	}
	if !includeInactive {
		filter.IsActive = utils.ToPtr(true)
	}

	materials, err := f.materialRepo.ByFilter(ctx, filter, "category ASC, display_order ASC, grade ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("MATERIAL_LIST_FAILED", "Failed to list materials", err)
	}

	items := make([]dto.MaterialDTO, 0, len(materials))
	for _, m := range materials {
		items = append(items, toMaterialDTO(m))
	}
	return &dto.ListMaterialsResponse{
		Message: "Materials retrieved successfully",
		Items:   items,
		Total:   len(items),
	}, nil
}

// CreateMaterial adds a material outside the standard catalog. Names are
// unique; a referenced group must exist. When no density is given, the
// standard-grade table supplies one (stainless default for unseen grades).
func (f *CatalogFlowImpl) CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialDTO, error) {
	existing, err := f.materialRepo.ByName(ctx, req.Name)
	if err != nil {
		return nil, NewBusinessError("MATERIAL_LOOKUP_FAILED", "Failed to check material name", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("MATERIAL_EXISTS", "Material named %s already exists", ErrMaterialAlreadyExists, req.Name)
	}

	if req.GroupID != nil {
		group, err := f.groupRepo.ByID(ctx, *req.GroupID)
		if err != nil {
			return nil, NewBusinessError("MATERIAL_GROUP_LOOKUP_FAILED", "Failed to check material group", err)
		}
		if group == nil {
			return nil, NewBusinessErrorf("MATERIAL_GROUP_NOT_FOUND", "Material group %d does not exist", ErrMaterialGroupNotFound, *req.GroupID)
		}
	}

	density := models.SeedForGrade(req.Grade).Density
	if req.Density != nil {
		density = *req.Density
	}

	material := &models.Material{
		GroupID:          req.GroupID,
		Name:             req.Name,
		Category:         req.Category,
		Grade:            req.Grade,
		Density:          density,
		EquivalentGrades: pq.StringArray(req.EquivalentGrades),
		IsActive:         true,
	}
	if err := f.materialRepo.Save(ctx, material); err != nil {
		return nil, NewBusinessError("MATERIAL_CREATE_FAILED", "Failed to create material", err)
	}

	created := toMaterialDTO(material)
	return &created, nil
}

// SeedMaterials reconciles the standard grade catalog against the database:
// grades already present are left untouched, missing ones are created. Safe
// to call any number of times.
func (f *CatalogFlowImpl) SeedMaterials(ctx context.Context, metadata *ClientMetadata) (*dto.SeedMaterialsResponse, error) {
	var (
		created []string
		skipped int
	)

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, seed := range models.StandardGrades {
			existing, err := f.materialRepo.ByGrade(txCtx, seed.Grade)
			if err != nil {
				return err
			}
			if existing != nil {
				skipped++
				continue
			}

			material := &models.Material{
				Name:             seed.Name,
				Category:         seed.Category,
				Grade:            seed.Grade,
				Density:          seed.Density,
				EquivalentGrades: pq.StringArray(seed.EquivalentGrades),
				IsActive:         true,
			}
			if seed.Description != "" {
				material.Description = utils.ToPtr(seed.Description)
			}
			if err := f.materialRepo.Save(txCtx, material); err != nil {
				return err
			}
			created = append(created, seed.Grade)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("MATERIAL_SEED_FAILED", "Failed to seed material catalog", err)
	}

	return &dto.SeedMaterialsResponse{
		Message: "Material catalog seeded successfully",
		Created: len(created),
		Skipped: skipped,
		Grades:  created,
	}, nil
}

// ListMaterialGroups returns groups in display order with the count of
// active materials assigned to each.
func (f *CatalogFlowImpl) ListMaterialGroups(ctx context.Context, category *string, includeInactive bool) (*dto.ListMaterialGroupsResponse, error) {
	filter := models.MaterialGroupFilter{Category: category}
	if !includeInactive {
		filter.IsActive = utils.ToPtr(true)
	}

	groups, err := f.groupRepo.ByFilter(ctx, filter, "category ASC, display_order ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("MATERIAL_GROUP_LIST_FAILED", "Failed to list material groups", err)
	}

	items := make([]dto.MaterialGroupDTO, 0, len(groups))
	for _, g := range groups {
		count, err := f.materialRepo.Count(ctx, models.MaterialFilter{
			GroupID:  utils.ToPtr(g.ID),
			IsActive: utils.ToPtr(true),
		})
		if err != nil {
			return nil, NewBusinessError("MATERIAL_GROUP_LIST_FAILED", "Failed to count group materials", err)
		}
		items = append(items, toMaterialGroupDTO(g, int(count)))
	}
	return &dto.ListMaterialGroupsResponse{
		Message: "Material groups retrieved successfully",
		Items:   items,
	}, nil
}

// ListProcessingOptions returns the active processing rules.
func (f *CatalogFlowImpl) ListProcessingOptions(ctx context.Context) (*dto.ListProcessingOptionsResponse, error) {
	options, err := f.processingOptRepo.ByFilter(ctx, models.ProcessingOptionFilter{IsActive: utils.ToPtr(true)}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PROCESSING_OPTION_LIST_FAILED", "Failed to list processing options", err)
	}

	items := make([]dto.ProcessingOptionDTO, 0, len(options))
	for _, o := range options {
		items = append(items, toProcessingOptionDTO(o))
	}
	return &dto.ListProcessingOptionsResponse{
		Message: "Processing options retrieved successfully",
		Items:   items,
	}, nil
}

// Mappers

func toMaterialDTO(m *models.Material) dto.MaterialDTO {
	item := dto.MaterialDTO{
		ID:               m.ID,
		Grade:            m.Grade,
		Name:             m.Name,
		Category:         m.Category,
		Density:          m.Density,
		EquivalentGrades: m.EquivalentGrades,
		GroupID:          m.GroupID,
		IsActive:         m.IsActive,
	}
	if m.Group != nil {
		item.GroupName = utils.ToPtr(m.Group.Name)
	}
	return item
}

func toMaterialGroupDTO(g *models.MaterialGroup, materials int) dto.MaterialGroupDTO {
	return dto.MaterialGroupDTO{
		ID:          g.ID,
		Name:        g.Name,
		Category:    g.Category,
		Description: g.Description,
		Materials:   materials,
	}
}

func toProcessingOptionDTO(o *models.ProcessingOption) dto.ProcessingOptionDTO {
	return dto.ProcessingOptionDTO{
		ID:               o.ID,
		Grade:            o.Grade,
		SurfaceFinish:    o.SurfaceFinish,
		ThicknessMin:     o.ThicknessMin,
		ThicknessMax:     o.ThicknessMax,
		WidthMin:         o.WidthMin,
		WidthMax:         o.WidthMax,
		GrindingProvider: o.GrindingProvider,
		GrindingAllowed:  o.GrindingAllowed,
		FilmType:         o.FilmType,
		FilmAllowed:      o.FilmAllowed,
		Notes:            o.Notes,
	}
}
