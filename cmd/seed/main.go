// seed crea los permisos view_users y manage_users, los cinco roles del taller,
// concede ambos permisos a admin y crea (o actualiza) el usuario administrador.
//
// Uso: go run ./cmd/seed -email admin@taller.vn -password secreto [-phone 0900000000] [-name "Admin User"]
// Lee la conexión a PostgreSQL de la misma configuración que cmd/api y aplica antes las migraciones.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/phone"
)

var roles = []struct{ name, description string }{
	{entity.RoleCustomer, "Cliente del taller"},
	{entity.RoleStaff, "Personal de recepción"},
	{entity.RoleTechnician, "Técnico"},
	{entity.RoleManager, "Jefe de taller"},
	{entity.RoleAdmin, "Administrador del sistema"},
}

var permissions = []struct{ name, description string }{
	{entity.PermissionViewUsers, "Ver usuarios y estadísticas"},
	{entity.PermissionManageUsers, "Cambiar roles de usuarios"},
}

func main() {
	email := flag.String("email", "", "email del administrador (obligatorio)")
	password := flag.String("password", "", "contraseña del administrador, mínimo 6 caracteres (obligatorio)")
	rawPhone := flag.String("phone", "0900000000", "teléfono del administrador")
	name := flag.String("name", "Admin User", "nombre completo")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "-email y -password (mínimo 6 caracteres) son obligatorios")
		flag.Usage()
		os.Exit(2)
	}
	p := phone.Normalize(*rawPhone)
	if p != "" && !phone.Valid(p) {
		fmt.Fprintf(os.Stderr, "teléfono inválido: %s\n", *rawPhone)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 10)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear contraseña")
	}

	var adminID string
	err = postgres.NewTxRunner(pool).RunSeed(ctx, func(s *postgres.Seeder) error {
		permIDs := make([]string, 0, len(permissions))
		for _, perm := range permissions {
			id, err := s.EnsurePermission(ctx, perm.name, perm.description)
			if err != nil {
				return err
			}
			permIDs = append(permIDs, id)
		}

		var adminRoleID string
		for _, r := range roles {
			id, err := s.EnsureRole(ctx, r.name, r.description)
			if err != nil {
				return err
			}
			if r.name == entity.RoleAdmin {
				adminRoleID = id
			}
		}
		for _, permID := range permIDs {
			if err := s.Grant(ctx, adminRoleID, permID); err != nil {
				return err
			}
		}

		id, err := s.UpsertUser(ctx, *name, p, *email, string(hash))
		if err != nil {
			return err
		}
		adminID = id
		return s.AssignOnlyRole(ctx, id, adminRoleID)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	log.Info().
		Str("user_id", adminID).
		Str("email", *email).
		Str("phone", logger.MaskPhone(p)).
		Strs("permissions", []string{entity.PermissionViewUsers, entity.PermissionManageUsers}).
		Msg("administrador listo")
}
