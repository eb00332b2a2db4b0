package service

import (
	"context"

	"github.com/magicvilla/villa-booking/services/villa/internal/models"
	"github.com/magicvilla/villa-booking/services/villa/internal/transport"
)

func (s *VillaService) GetVillaNumber(ctx context.Context, villaNo int) (*models.VillaNumber, error) {
	return s.Repo.GetVillaNumber(ctx, villaNo)
}

func (s *VillaService) ListVillaNumbers(ctx context.Context, offset, limit int) (int64, []models.VillaNumber, error) {
	return s.Repo.ListVillaNumbers(ctx, offset, limit)
}

func (s *VillaService) CreateVillaNumber(ctx context.Context, req transport.CreateVillaNumberRequest) (*models.VillaNumber, error) {
	if req.VillaNo <= 0 || req.VillaID == 0 {
		return nil, ErrValidation
	}

	exists, err := s.Repo.VillaExists(ctx, req.VillaID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownVilla
	}

	vn := models.VillaNumber{
		VillaNo:        req.VillaNo,
		VillaID:        req.VillaID,
		SpecialDetails: req.SpecialDetails,
	}
	if err := s.Repo.CreateVillaNumber(ctx, &vn); err != nil {
		return nil, err
	}
	return &vn, nil
}

func (s *VillaService) UpdateVillaNumber(ctx context.Context, villaNo int, req transport.UpdateVillaNumberRequest) (*models.VillaNumber, error) {
	vn, err := s.Repo.GetVillaNumber(ctx, villaNo)
	if err != nil {
		return nil, err
	}

	if req.VillaID != nil {
		exists, err := s.Repo.VillaExists(ctx, *req.VillaID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUnknownVilla
		}
		vn.VillaID = *req.VillaID
		vn.Villa = nil
	}
	if req.SpecialDetails != nil {
		vn.SpecialDetails = *req.SpecialDetails
	}

	if err := s.Repo.SaveVillaNumber(ctx, vn); err != nil {
		return nil, err
	}
	return vn, nil
}

func (s *VillaService) DeleteVillaNumber(ctx context.Context, villaNo int) error {
	return s.Repo.DeleteVillaNumber(ctx, villaNo)
}
