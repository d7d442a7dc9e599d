package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type UserTokenRepo interface {
  Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*types.UserToken, error)
  GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
  FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) error
}

type userTokenRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
  repoLog := baseLog.With("repo", "UserTokenRepo")
  return &userTokenRepo{db: db, log: repoLog}
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(tokens) == 0 {
    return []*types.UserToken{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
    return nil, err
  }
  return tokens, nil
}

func (r *userTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*types.UserToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserToken
  if len(userIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.UserToken
  err := transaction.WithContext(ctx).
    Where("refresh_token = ?", refreshToken).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *userTokenRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(userIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Delete(&types.UserToken{}).Error
}
