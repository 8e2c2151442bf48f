package persistence

import (
	"context"
	"os"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/sirupsen/logrus"
	otgorm "github.com/smacker/opentracing-gorm"
)

// DataSourceManager owns the mysql connection backing the session record
// store. The upstream API holds every business entity; nothing else is
// persisted on this side.
type DataSourceManager struct {
	gormDB *gorm.DB

	DatabaseURL string
}

var ActiveDataSourceManager *DataSourceManager

func (m *DataSourceManager) Start() error {
	db, err := gorm.Open("mysql", m.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.DB().Ping(); err != nil {
		db.Close()
		return err
	}
	if os.Getenv("GIN_MODE") != "release" {
		db.LogMode(true)
	}
	otgorm.AddGormCallbacks(db)
	m.gormDB = db
	return nil
}

func (m *DataSourceManager) Stop() {
	if m.gormDB != nil {
		if err := m.gormDB.Close(); err != nil {
			logrus.Warnf("failed to close DB: %v", err)
		}
		m.gormDB = nil
	}
}

// GormDB returns a fresh handle; a non-nil ctx carries the active span into
// the gorm callbacks.
func (m *DataSourceManager) GormDB(ctx context.Context) *gorm.DB {
	if m.gormDB == nil {
		return nil
	}
	db := m.gormDB.New()
	if ctx != nil {
		db = otgorm.SetSpanToGorm(ctx, db)
	}
	return db
}
