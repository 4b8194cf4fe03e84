package service

import (
	"context"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"
)

// UserDataService manages search history and favorites of the logged-in user.
// Anonymous sessions get apperror.ErrLoginRequired. Storage failures are logged
// and reported as false or an empty list.
type UserDataService interface {
	RecordSearch(ctx context.Context, sess *session.Session, ticker string, preventDuplicates bool) error
	RecentSearches(ctx context.Context, sess *session.Session) ([]model.SearchHistory, error)
	ToggleFavoriteCurrentStock(ctx context.Context, sess *session.Session, ticker string) (bool, error)
	AddFavorite(ctx context.Context, sess *session.Session, ticker string, notes *string) (bool, error)
	RemoveFavorite(ctx context.Context, sess *session.Session, ticker string) (bool, error)
	Favorites(ctx context.Context, sess *session.Session) ([]model.FavoriteStock, error)
	IsFavorite(ctx context.Context, sess *session.Session, ticker string) (bool, error)
}

type userDataService struct {
	cfg               *config.Config
	log               *logger.Logger
	searchHistoryRepo repository.SearchHistoryRepository
	favoriteStockRepo repository.FavoriteStockRepository
	unitOfWork        repository.UnitOfWork
}

func NewUserDataService(
	cfg *config.Config,
	log *logger.Logger,
	searchHistoryRepo repository.SearchHistoryRepository,
	favoriteStockRepo repository.FavoriteStockRepository,
	unitOfWork repository.UnitOfWork,
) UserDataService {
	return &userDataService{
		cfg:               cfg,
		log:               log,
		searchHistoryRepo: searchHistoryRepo,
		favoriteStockRepo: favoriteStockRepo,
		unitOfWork:        unitOfWork,
	}
}

func (s *userDataService) userID(sess *session.Session) (uint, error) {
	if !sess.IsAuthenticated() {
		return 0, apperror.ErrLoginRequired
	}
	return *sess.UserID, nil
}

func (s *userDataService) RecordSearch(ctx context.Context, sess *session.Session, ticker string, preventDuplicates bool) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	if preventDuplicates {
		recent, err := s.searchHistoryRepo.GetRecent(ctx, userID, s.cfg.UserData.RecentSearchesLimit)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to get recent searches", logger.ErrorField(err), logger.UintField("user_id", userID))
			return nil
		}
		for _, search := range recent {
			if search.Ticker == ticker {
				return nil
			}
		}
	}

	if err := s.searchHistoryRepo.Add(ctx, userID, ticker); err != nil {
		s.log.ErrorContext(ctx, "Failed to add search history", logger.ErrorField(err),
			logger.UintField("user_id", userID),
			logger.StringField("ticker", ticker),
		)
	}
	return nil
}

func (s *userDataService) RecentSearches(ctx context.Context, sess *session.Session) ([]model.SearchHistory, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	searches, err := s.searchHistoryRepo.GetRecent(ctx, userID, s.cfg.UserData.RecentSearchesLimit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get recent searches", logger.ErrorField(err), logger.UintField("user_id", userID))
		return []model.SearchHistory{}, nil
	}
	return searches, nil
}

// ToggleFavoriteCurrentStock removes the ticker when it is a favorite and adds it otherwise.
// The returned bool is the new state. Two sessions toggling at once resolve last-write-wins.
// The session's favorite flag follows the new state only when the toggle was stored.
func (s *userDataService) ToggleFavoriteCurrentStock(ctx context.Context, sess *session.Session, ticker string) (bool, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return false, err
	}

	var isFavorite bool
	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		exists, err := s.favoriteStockRepo.Exists(ctx, userID, ticker, opts...)
		if err != nil {
			return err
		}
		if exists {
			if _, err := s.favoriteStockRepo.Remove(ctx, userID, ticker, opts...); err != nil {
				return err
			}
			isFavorite = false
			return nil
		}
		if _, err := s.favoriteStockRepo.Add(ctx, userID, ticker, nil, opts...); err != nil {
			return err
		}
		isFavorite = true
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to toggle favorite", logger.ErrorField(err),
			logger.UintField("user_id", userID),
			logger.StringField("ticker", ticker),
		)
		return false, nil
	}
	if sess.CurrentTicker == ticker {
		sess.IsFavorite = isFavorite
	}
	return isFavorite, nil
}

func (s *userDataService) AddFavorite(ctx context.Context, sess *session.Session, ticker string, notes *string) (bool, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return false, err
	}

	added, err := s.favoriteStockRepo.Add(ctx, userID, ticker, notes)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to add favorite", logger.ErrorField(err),
			logger.UintField("user_id", userID),
			logger.StringField("ticker", ticker),
		)
		return false, nil
	}
	return added, nil
}

func (s *userDataService) RemoveFavorite(ctx context.Context, sess *session.Session, ticker string) (bool, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return false, err
	}

	removed, err := s.favoriteStockRepo.Remove(ctx, userID, ticker)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to remove favorite", logger.ErrorField(err),
			logger.UintField("user_id", userID),
			logger.StringField("ticker", ticker),
		)
		return false, nil
	}
	return removed, nil
}

func (s *userDataService) Favorites(ctx context.Context, sess *session.Session) ([]model.FavoriteStock, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	favorites, err := s.favoriteStockRepo.GetByUser(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get favorites", logger.ErrorField(err), logger.UintField("user_id", userID))
		return []model.FavoriteStock{}, nil
	}
	return favorites, nil
}

func (s *userDataService) IsFavorite(ctx context.Context, sess *session.Session, ticker string) (bool, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return false, err
	}

	exists, err := s.favoriteStockRepo.Exists(ctx, userID, ticker)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to check favorite", logger.ErrorField(err), logger.UintField("user_id", userID))
		return false, nil
	}
	return exists, nil
}
