package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/models"
	"gorm.io/gorm"
)

// AwardPoints unconditionally credits EcoPoints to a user's balance
func AwardPoints(db *gorm.DB, userID uuid.UUID, amount int) error {
	if amount < 0 {
		return &ValidationError{Message: "Point award must not be negative"}
	}
	return awardPoints(db, userID, amount)
}

func awardPoints(db *gorm.DB, userID uuid.UUID, amount int) error {
	res := db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return persistence("Failed to award points", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Message: "User not found"}
	}
	return nil
}

// IssueVoucher atomically deducts pointsRequired from the user and
// creates the voucher. The decrement is conditional on the current
// balance, so concurrent issuances can never drive points negative; the
// unique code index rejects duplicates.
func IssueVoucher(db *gorm.DB, userID uuid.UUID, shopName string, discountAmount float64, pointsRequired int, code string) (*models.Voucher, error) {
	if code == "" {
		return nil, &ValidationError{Message: "Voucher code is required"}
	}
	if pointsRequired <= 0 {
		return nil, &ValidationError{Message: "Points required must be greater than zero"}
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, persistence("Failed to load user", err)
	}

	voucher := models.Voucher{
		Code:           code,
		ShopName:       shopName,
		DiscountAmount: discountAmount,
		PointsRequired: pointsRequired,
		AssignedToID:   &userID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", userID, pointsRequired).
			UpdateColumn("points", gorm.Expr("points - ?", pointsRequired))
		if res.Error != nil {
			return persistence("Failed to deduct points", res.Error)
		}
		if res.RowsAffected == 0 {
			return &InsufficientPointsError{Message: "Insufficient EcoPoints"}
		}

		if err := tx.Create(&voucher).Error; err != nil {
			// unique constraint wording differs between PostgreSQL and SQLite
			if strings.Contains(strings.ToLower(err.Error()), "unique") ||
				strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				return &ConflictError{Message: "A voucher with this code already exists"}
			}
			return persistence("Failed to create voucher", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &voucher, nil
}
