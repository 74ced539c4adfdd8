package migration

import (
	"context"

	"gorm.io/gorm"

	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// demoBusinesses are created for local development
var demoBusinesses = []string{
	"Demo Salon",
	"Demo Barbershop",
	"Demo Nail Studio",
}

// SeedDemoBusinesses creates the demo businesses that do not exist yet, through
// the onboarding flow so each one receives its trial credits
func SeedDemoBusinesses(ctx context.Context, db *gorm.DB, businesses portuse.BusinessUseCase) ([]*portuse.BusinessAccount, error) {
	var created []*portuse.BusinessAccount

	for _, name := range demoBusinesses {
		var count int64
		if err := db.WithContext(ctx).Model(&model.Business{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		account, err := businesses.CreateBusiness(ctx, name)
		if err != nil {
			return created, err
		}
		created = append(created, account)
	}

	return created, nil
}
