package progress

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/textbook-backend/internal/domain/progress"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

type gormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormRepo(db *gorm.DB, baseLog *logger.Logger) KVRepo {
	return &gormRepo{db: db, log: baseLog.With("repo", "ProgressGormRepo")}
}

func (r *gormRepo) Get(ctx context.Context, learnerID uuid.UUID, key string) ([]byte, bool, error) {
	var row domain.Entry
	err := r.db.WithContext(ctx).
		Where("learner_id = ? AND key = ?", learnerID, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

func (r *gormRepo) Put(ctx context.Context, learnerID uuid.UUID, key string, value []byte) error {
	return r.upsert(r.db.WithContext(ctx), learnerID, map[string][]byte{key: value})
}

func (r *gormRepo) PutMany(ctx context.Context, learnerID uuid.UUID, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.upsert(tx, learnerID, entries)
	})
}

func (r *gormRepo) upsert(t *gorm.DB, learnerID uuid.UUID, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	now := time.Now().UTC()
	rows := make([]*domain.Entry, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, &domain.Entry{
			LearnerID: learnerID,
			Key:       k,
			Value:     datatypes.JSON(entries[k]),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return t.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}

func (r *gormRepo) List(ctx context.Context, learnerID uuid.UUID, prefix string) (map[string][]byte, error) {
	var rows []*domain.Entry
	q := r.db.WithContext(ctx).Where("learner_id = ?", learnerID)
	if prefix != "" {
		q = q.Where("key LIKE ? ESCAPE '\\'", likePrefix(prefix))
	}
	if err := q.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(rows))
	for _, row := range rows {
		if !strings.HasPrefix(row.Key, prefix) {
			continue
		}
		out[row.Key] = []byte(row.Value)
	}
	return out, nil
}

func (r *gormRepo) Close() error { return nil }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
