package main

import (
	"loyalty/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.UserDeviceModel{},
		model.MissionModel{},
		model.MissionParticipationModel{},
		model.ReviewModel{},
		model.ReviewLikeModel{},
		model.ReviewCommentModel{},
		model.RedemptionItemModel{},
		model.RedemptionRequestModel{},
		model.PointTransactionModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
