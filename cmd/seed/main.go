// seed crea el usuario administrador inicial y un almacén por defecto.
// Aplica antes las migraciones pendientes (que siembran los roles del sistema).
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	if cfg.Seed.AdminPassword == "" {
		log.Error().Msg("SEED_ADMIN_PASSWORD es obligatorio")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.NewMigrator(pool).Up(); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)

	admin, err := roleRepo.GetByName(ctx, entity.RoleAdmin)
	if err != nil || admin == nil {
		log.Fatal().Err(err).Msg("rol admin no encontrado; ¿corrieron las migraciones?")
	}

	authUC := auth.NewAuthUseCase(userRepo, roleRepo, auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	user, err := authUC.RegisterUser(ctx, dto.CreateUserRequest{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		DNI:      cfg.Seed.AdminDNI,
		Password: cfg.Seed.AdminPassword,
		RoleID:   admin.ID,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrDNIAlreadyExists):
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador ya existente, se omite")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("administrador creado")
	}

	existing, err := warehouseRepo.List(ctx, 1, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("listar almacenes")
	}
	if len(existing) > 0 {
		log.Info().Msg("ya hay almacenes cargados")
		return
	}
	wh, err := usecase.NewWarehouseUseCase(warehouseRepo).Create(ctx, dto.CreateWarehouseRequest{Name: "Depósito central"})
	if err != nil {
		log.Fatal().Err(err).Msg("crear almacén")
	}
	log.Info().Str("warehouse_id", wh.ID).Msg("almacén por defecto creado")
}
