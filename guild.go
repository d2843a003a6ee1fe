package spark

import (
	"github.com/glebarez/sqlite"
	log "github.com/inconshreveable/log15"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// GuildSettings is the structure that holds the stored settings for a single guild
type GuildSettings struct {
	// GuildID is the ID of the guild and is used as the primary key
	GuildID string `gorm:"primarykey"`
	// Prefixes are the guild's own command prefixes, tried after the
	// client-wide ones
	Prefixes StringArray
}

// GuildSettingsManager persists per-guild settings in a SQLite database and
// serves them to the dispatcher as a SettingsProvider
type GuildSettingsManager struct {
	logger     log.Logger
	connection *gorm.DB
}

func NewGuildSettingsManager(logger log.Logger, databasePath string) (*GuildSettingsManager, error) {
	connection, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := connection.AutoMigrate(&GuildSettings{}); err != nil {
		return nil, err
	}
	return &GuildSettingsManager{logger: logger, connection: connection}, nil
}

// Prefixes returns the guild's configured prefixes, or nothing when the
// guild has none stored
func (mng *GuildSettingsManager) Prefixes(guildID string) []string {
	var settings GuildSettings
	result := mng.connection.Limit(1).Find(&settings, "guild_id = ?", guildID)
	if result.Error != nil {
		mng.logger.Error("Failed to load guild settings", "guild", guildID, "error", result.Error)
		return nil
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return settings.Prefixes
}

// SetPrefixes replaces the guild's stored prefixes
func (mng *GuildSettingsManager) SetPrefixes(guildID string, prefixes ...string) error {
	return mng.connection.Save(&GuildSettings{GuildID: guildID, Prefixes: prefixes}).Error
}

// ClearPrefixes removes the guild's stored prefixes
func (mng *GuildSettingsManager) ClearPrefixes(guildID string) error {
	return mng.connection.Where("guild_id = ?", guildID).Delete(&GuildSettings{}).Error
}

// Connection returns the underlying database connection
func (mng *GuildSettingsManager) Connection() *gorm.DB {
	return mng.connection
}
