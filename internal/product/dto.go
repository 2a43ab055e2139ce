// AngelaMos | 2026
// dto.go

package product

import (
	"time"
)

type CreateProductRequest struct {
	Title        string   `json:"title"                  validate:"required,min=3,max=100"`
	Description  string   `json:"description"            validate:"required,min=50"`
	Price        int64    `json:"price"                  validate:"min=99,max=99999"`
	Type         string   `json:"type"                   validate:"required,oneof=LESSON COURSE"`
	Level        string   `json:"level"                  validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL_LEVELS"`
	CategoryID   *string  `json:"categoryId,omitempty"   validate:"omitempty,uuid"`
	Tags         []string `json:"tags,omitempty"         validate:"max=10,dive,min=1,max=50"`
	ThumbnailURL *string  `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	PreviewURL   *string  `json:"previewUrl,omitempty"   validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Title         *string   `json:"title,omitempty"         validate:"omitempty,min=3,max=100"`
	Description   *string   `json:"description,omitempty"   validate:"omitempty,min=50"`
	Price         *int64    `json:"price,omitempty"         validate:"omitempty,min=99,max=99999"`
	Type          *string   `json:"type,omitempty"          validate:"omitempty,oneof=LESSON COURSE"`
	Level         *string   `json:"level,omitempty"         validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED ALL_LEVELS"`
	CategoryID    *string   `json:"categoryId,omitempty"    validate:"omitempty,uuid"`
	Tags          *[]string `json:"tags,omitempty"          validate:"omitempty,max=10,dive,min=1,max=50"`
	ThumbnailURL  *string   `json:"thumbnailUrl,omitempty"  validate:"omitempty,url"`
	PreviewURL    *string   `json:"previewUrl,omitempty"    validate:"omitempty,url"`
	VideoAssetID  *string   `json:"videoAssetId,omitempty"  validate:"omitempty,uuid"`
	TotalDuration *int      `json:"totalDuration,omitempty" validate:"omitempty,min=0"`
	LessonCount   *int      `json:"lessonCount,omitempty"   validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
}

type ListParams struct {
	Category           string
	Level              string
	Type               string
	MinPrice           *int64
	MaxPrice           *int64
	Search             string
	CreatorID          string
	IncludeUnpublished bool
	Page               int
	PageSize           int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 24
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type CreatorSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResponse struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription *string          `json:"shortDescription"`
	Price            int64            `json:"price"`
	Type             string           `json:"type"`
	Level            string           `json:"level"`
	Status           string           `json:"status"`
	Tags             []string         `json:"tags"`
	ThumbnailURL     *string          `json:"thumbnailUrl"`
	PreviewURL       *string          `json:"previewUrl"`
	TotalDuration    *int             `json:"totalDuration"`
	LessonCount      int              `json:"lessonCount"`
	HasVideo         bool             `json:"hasVideo"`
	VideoDuration    *int             `json:"videoDuration,omitempty"`
	Creator          CreatorSummary   `json:"creator"`
	Category         *CategorySummary `json:"category"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type SummaryResponse struct {
	ProductResponse
	PurchaseCount int `json:"purchaseCount"`
}

type DeleteResponse struct {
	Message  string `json:"message"`
	Archived bool   `json:"archived"`
}

func ToProductResponse(p *Product) ProductResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}

	resp := ProductResponse{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		Type:             p.Type,
		Level:            p.Level,
		Status:           p.Status,
		Tags:             tags,
		ThumbnailURL:     p.ThumbnailURL,
		PreviewURL:       p.PreviewURL,
		TotalDuration:    p.TotalDuration,
		LessonCount:      p.LessonCount,
		HasVideo:         p.HasVideo(),
		VideoDuration:    p.VideoDuration,
		Creator: CreatorSummary{
			ID:          p.CreatorID,
			DisplayName: p.CreatorDisplayName,
			AvatarURL:   p.CreatorAvatarURL,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.CategoryID != nil && p.CategoryName != nil && p.CategorySlug != nil {
		resp.Category = &CategorySummary{
			ID:   *p.CategoryID,
			Name: *p.CategoryName,
			Slug: *p.CategorySlug,
		}
	}

	return resp
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

func ToSummaryResponseList(summaries []Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(summaries))
	for i := range summaries {
		out = append(out, SummaryResponse{
			ProductResponse: ToProductResponse(&summaries[i].Product),
			PurchaseCount:   summaries[i].PurchaseCount,
		})
	}
	return out
}
