package service

import (
	"context"
	"errors"

	"github.com/magicvilla/villa-booking/services/villa/internal/models"
	"github.com/magicvilla/villa-booking/services/villa/internal/repo"
	"github.com/magicvilla/villa-booking/services/villa/internal/transport"
)

var (
	ErrValidation   = errors.New("invalid villa payload")
	ErrUnknownVilla = errors.New("referenced villa does not exist")
)

type VillaService struct {
	Repo *repo.GormRepo
}

func (s *VillaService) GetVilla(ctx context.Context, id uint) (*models.Villa, error) {
	return s.Repo.GetVilla(ctx, id)
}

func (s *VillaService) ListVillas(ctx context.Context, f repo.VillaFilter) (int64, []models.Villa, error) {
	return s.Repo.ListVillas(ctx, f)
}

func (s *VillaService) CreateVilla(ctx context.Context, req transport.CreateVillaRequest) (*models.Villa, error) {
	if req.Name == "" || req.Rate < 0 || req.Occupancy < 0 || req.Sqft < 0 {
		return nil, ErrValidation
	}

	villa := models.Villa{
		Name:      req.Name,
		Details:   req.Details,
		Rate:      req.Rate,
		Occupancy: req.Occupancy,
		Sqft:      req.Sqft,
		Amenity:   req.Amenity,
	}
	if err := s.Repo.CreateVilla(ctx, &villa); err != nil {
		return nil, err
	}
	return &villa, nil
}

func (s *VillaService) UpdateVilla(ctx context.Context, id uint, req transport.UpdateVillaRequest) (*models.Villa, error) {
	villa, err := s.Repo.GetVilla(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		villa.Name = *req.Name
	}
	if req.Details != nil {
		villa.Details = *req.Details
	}
	if req.Rate != nil {
		if *req.Rate < 0 {
			return nil, ErrValidation
		}
		villa.Rate = *req.Rate
	}
	if req.Occupancy != nil {
		villa.Occupancy = *req.Occupancy
	}
	if req.Sqft != nil {
		villa.Sqft = *req.Sqft
	}
	if req.Amenity != nil {
		villa.Amenity = *req.Amenity
	}

	if err := s.Repo.SaveVilla(ctx, villa); err != nil {
		return nil, err
	}
	return villa, nil
}

func (s *VillaService) SetVillaImage(ctx context.Context, id uint, imageURL, localPath string) (*models.Villa, error) {
	villa, err := s.Repo.GetVilla(ctx, id)
	if err != nil {
		return nil, err
	}
	villa.ImageURL = imageURL
	villa.ImageLocalPath = localPath
	if err := s.Repo.SaveVilla(ctx, villa); err != nil {
		return nil, err
	}
	return villa, nil
}

func (s *VillaService) DeleteVilla(ctx context.Context, id uint) (*models.Villa, error) {
	villa, err := s.Repo.GetVilla(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteVilla(ctx, id); err != nil {
		return nil, err
	}
	return villa, nil
}
