package session

import (
	"errors"
	"fieldops/persistence"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// SessionRecord is the durable copy of a console session. It is what lets a
// signed-in user survive a console restart, the way the SPA predecessor's
// localStorage survived a reload.
type SessionRecord struct {
	Token        string    `gorm:"primary_key;size:64"`
	UserID       uint64    `gorm:"column:user_id"`
	Name         string    `gorm:"size:255"`
	Role         string    `gorm:"size:32"`
	AccessToken  string    `gorm:"type:text"`
	RefreshToken string    `gorm:"type:text"`
	SigningTime  time.Time `gorm:"column:signing_time"`
}

func (SessionRecord) TableName() string {
	return "session_records"
}

var (
	SaveSessionRecordFunc   = SaveSessionRecord
	LoadSessionRecordFunc   = LoadSessionRecord
	DeleteSessionRecordFunc = DeleteSessionRecord
)

func SaveSessionRecord(s *Session) error {
	record := SessionRecord{
		Token:        s.Token,
		UserID:       uint64(s.Identity.ID),
		Name:         s.Identity.Name,
		Role:         string(s.Identity.Role),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		SigningTime:  s.SigningTime,
	}
	return persistence.ActiveDataSourceManager.GormDB(nil).Create(&record).Error
}

func LoadSessionRecord(token string) (*Session, error) {
	record := SessionRecord{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	if err := db.Where(&SessionRecord{Token: token}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if time.Since(record.SigningTime) > TokenExpiration {
		db.Delete(&SessionRecord{Token: token})
		return nil, nil
	}
	return &Session{
		Token: record.Token,
		Identity: Identity{
			ID:   types.ID(record.UserID),
			Name: record.Name,
			Role: Role(record.Role),
		},
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		SigningTime:  record.SigningTime,
	}, nil
}

func DeleteSessionRecord(token string) error {
	return persistence.ActiveDataSourceManager.GormDB(nil).Delete(&SessionRecord{Token: token}).Error
}
