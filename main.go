package main

import (
	"errors"
	"net/http"

	"github.com/alphaingen/medboard/config"
	"github.com/alphaingen/medboard/models"
	"github.com/alphaingen/medboard/routes"
	"github.com/alphaingen/medboard/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Question{},
		&models.Reply{},
		&models.Guideline{},
		&models.GuidelineLike{},
	)

	r := routes.SetupRouter(db, utils.NewSMTPMailer())

	utils.Sugar.Infof("Listening successfully on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
