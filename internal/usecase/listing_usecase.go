package usecase

import (
	"context"
	"sort"
	"strings"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/geo"
	"lokalmarket/pkg/utils"
)

// ListingUseCase serves listing reads, owner-side edits and proximity search.
// Listing creation lives in PublicationUseCase, behind the fee payment.
type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status == entity.ListingStatusDeleted {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

func (uc *ListingUseCase) ListAll(ctx context.Context, page, limit int) ([]*entity.Listing, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.listingRepo.ListAll(ctx, pagination.PageSize, pagination.Offset)
}

func (uc *ListingUseCase) ListMine(ctx context.Context, callerID string) ([]*entity.Listing, error) {
	return uc.listingRepo.ListByOwner(ctx, callerID)
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Condition   *string
	Location    *string
}

func (uc *ListingUseCase) Update(ctx context.Context, callerID, id string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID != callerID {
		return nil, errors.Forbidden("You can only edit your own listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("Only active listings can be edited")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, errors.Validation("Listing title is required", nil)
		}
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, errors.Validation("Listing price must be positive", nil)
		}
		listing.Price = *input.Price
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.Condition != nil {
		listing.Condition = *input.Condition
	}
	if input.Location != nil {
		listing.Location = *input.Location
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// Delete soft-deletes the listing; the record stays for transaction history.
func (uc *ListingUseCase) Delete(ctx context.Context, callerID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.OwnerID != callerID {
		return errors.Forbidden("You can only delete your own listing", nil)
	}
	if listing.Status == entity.ListingStatusDeleted {
		return errors.InvalidState("Listing is already deleted")
	}
	if listing.Status == entity.ListingStatusSold {
		return errors.InvalidState("A sold listing cannot be deleted")
	}

	listing.Status = entity.ListingStatusDeleted
	return uc.listingRepo.Update(ctx, listing)
}

func (uc *ListingUseCase) AttachImages(ctx context.Context, callerID, id string, urls []string) (*entity.Listing, error) {
	if len(urls) == 0 {
		return nil, errors.Validation("No images provided", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID != callerID {
		return nil, errors.Forbidden("You can only add images to your own listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("Only active listings can be edited")
	}

	listing.Images = append(listing.Images, urls...)
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) SearchByCity(ctx context.Context, name string) ([]*entity.Listing, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Validation("City name is required", nil)
	}

	listings, err := uc.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	matches := []*entity.Listing{}
	for _, listing := range listings {
		if strings.Contains(strings.ToLower(listing.Location), needle) {
			matches = append(matches, listing)
		}
	}

	return matches, nil
}

func (uc *ListingUseCase) SearchByRadius(ctx context.Context, lat, lon, radiusKm float64) ([]*entity.ListingWithDistance, error) {
	if radiusKm <= 0 {
		return nil, errors.Validation("Radius must be positive", nil)
	}

	listings, err := uc.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*entity.ListingWithDistance{}
	for _, listing := range listings {
		// Listings without coordinates never appear in radius results.
		if !listing.HasCoordinates() {
			continue
		}

		distance := geo.Distance(lat, lon, *listing.Latitude, *listing.Longitude)
		if distance <= radiusKm {
			matches = append(matches, &entity.ListingWithDistance{
				Listing:    listing,
				DistanceKm: distance,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches, nil
}
