package integration

import (
	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

func bookingInput(clientID, creatorID string, amount decimal.Decimal) usecase.CreateBookingInput {
	return usecase.CreateBookingInput{
		ClientID:  clientID,
		CreatorID: creatorID,
		Amount:    amount,
		Brief:     "test engagement",
	}
}

func withdrawInput(walletID string, amount decimal.Decimal, key string) usecase.WithdrawInput {
	return usecase.WithdrawInput{
		WalletID:       walletID,
		Amount:         amount,
		IdempotencyKey: key,
	}
}

func applicationInput(clientID, creatorID string, amount decimal.Decimal) usecase.CreateProjectApplicationInput {
	return usecase.CreateProjectApplicationInput{
		ClientID:  clientID,
		CreatorID: creatorID,
		Amount:    amount,
		ProjectID: "project-1",
		Proposal:  "test proposal",
	}
}
