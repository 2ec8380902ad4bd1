package service

import (
	"strings"
	"testing"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Post{},
		&models.Comment{},
		&models.CommentLike{},
		&models.DirectMessage{},
		&models.Member{},
		&models.Semester{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.ChatParticipant{},
	))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, loginID, name string) models.User {
	t.Helper()
	user := models.User{LoginID: loginID, PasswordHash: "x", Name: name}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, gdb *gorm.DB, userID uint, title string) models.Post {
	t.Helper()
	post := models.Post{Title: title, Content: "content", UserID: userID}
	require.NoError(t, gdb.Create(&post).Error)
	return post
}
