package repository

import (
	"database/sql"
	"fmt"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/db/models/postgres/public/table"
)

type AssetRepository interface {
	List() ([]model.Asset, error)
	// SectorMap returns symbol -> sector for every asset that has one.
	SectorMap() (map[string]string, error)
}

type assetRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return assetRepositoryHandler{Db: db}
}

func (h assetRepositoryHandler) List() ([]model.Asset, error) {
	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		ORDER_BY(table.Asset.Symbol.ASC())

	out := []model.Asset{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return out, nil
}

func (h assetRepositoryHandler) SectorMap() (map[string]string, error) {
	assets, err := h.List()
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	for _, a := range assets {
		if a.Sector != nil {
			out[a.Symbol] = *a.Sector
		}
	}

	return out, nil
}
