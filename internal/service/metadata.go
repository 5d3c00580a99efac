package service

import (
	"context"
	"strconv"

	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
)

// readOverbid returns the current highest accepted bid stored on the asset.
func readOverbid(ctx context.Context, store *repository.Store, asset string) (uint64, error) {
	field, err := store.Assets.GetField(ctx, asset, model.MetadataKeyOverbid)
	if err != nil {
		return 0, err
	}
	if field == nil {
		return 0, detail(ErrMissingOverbidField, "asset %s", asset)
	}
	return parseOverbid(field.Value)
}

// parseOverbid accepts only the form writeOverbid produces, so "007" is rejected.
func parseOverbid(value string) (uint64, error) {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil || strconv.FormatUint(v, 10) != value {
		return 0, detail(ErrInvalidOverbidValue, "%q", value)
	}
	return v, nil
}

func writeOverbid(ctx context.Context, store *repository.Store, asset string, amount uint64) error {
	return store.Assets.SetField(ctx, asset, model.MetadataKeyOverbid, strconv.FormatUint(amount, 10))
}

func writeOwner(ctx context.Context, store *repository.Store, asset, owner string) error {
	return store.Assets.SetField(ctx, asset, model.MetadataKeyOwner, owner)
}

func metadataValue(fields []model.AssetMetadata, key string) (string, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}
