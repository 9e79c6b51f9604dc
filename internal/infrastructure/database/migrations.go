package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator aplica as migrações SQL do diretório informado
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator cria um Migrator para o diretório de migrações e a URL do banco
func NewMigrator(migrationsPath, dbURL string) (*Migrator, error) {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao resolver caminho das migrações: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absPath), dbURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	return nil
}

// Down desfaz as últimas n migrações; n <= 0 desfaz todas
func (mg *Migrator) Down(n int) error {
	var err error
	if n <= 0 {
		err = mg.m.Down()
	} else {
		err = mg.m.Steps(-n)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	return nil
}

// Version retorna a versão atual do schema e se ela está marcada como suja
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("erro ao obter versão: %w", err)
	}
	return version, dirty, nil
}

// Close libera as conexões do migrate
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations aplica as migrações pendentes e fecha o Migrator
func RunMigrations(migrationsPath, dbURL string) error {
	mg, err := NewMigrator(migrationsPath, dbURL)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up()
}
