package service

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
)

type PackageService struct {
	packages PackageStore
}

func NewPackageService(packages PackageStore) *PackageService {
	return &PackageService{packages: packages}
}

func (s *PackageService) GetAllPackages() ([]models.CreditPackage, error) {
	return s.packages.GetAll()
}
