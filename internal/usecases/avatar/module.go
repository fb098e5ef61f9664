package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/admin/astro-match/internal/ports/storage"
	"github.com/google/uuid"
)

var ErrUnsupportedFormat = errors.New("unsupported avatar format")

var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Service аватарки в бакете: загрузка, удаление и чистка осиротевших файлов
type Service struct {
	ProfileRepo repository.IProfileRepo
	Storage     storage.IS3Client
	Log         *slog.Logger

	suffix func() string
}

// New storage может быть nil, тогда все операции возвращают domain.ErrStorageDisabled
func New(profileRepo repository.IProfileRepo, s3 storage.IS3Client, log *slog.Logger) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		Storage:     s3,
		Log:         log,
		suffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}
}

// Upload кладёт файл как <userID>-<random>.<ext>, прописывает публичный URL в профиль и удаляет прежний файл
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, body io.Reader) (string, error) {
	if s.Storage == nil {
		return "", domain.ErrStorageDisabled
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	profile, err := s.ProfileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.%s", userID, s.suffix(), ext)
	if err := s.Storage.PutFile(ctx, name, body, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	publicURL := s.Storage.PublicURL(name)
	if err := s.ProfileRepo.SetAvatarURL(ctx, userID, &publicURL); err != nil {
		if delErr := s.Storage.DeleteFile(ctx, name); delErr != nil {
			s.Log.Warn("failed to remove avatar after profile update error", "error", delErr, "object", name)
		}
		return "", err
	}

	if profile.AvatarURL != nil {
		if previous := ObjectName(*profile.AvatarURL); previous != "" && previous != name {
			if err := s.Storage.DeleteFile(ctx, previous); err != nil {
				s.Log.Warn("failed to remove previous avatar", "error", err, "object", previous)
			}
		}
	}

	s.Log.Info("avatar uploaded", "user_id", userID, "object", name, "size", size)
	return publicURL, nil
}

func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	if s.Storage == nil {
		return domain.ErrStorageDisabled
	}

	profile, err := s.ProfileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile.AvatarURL == nil {
		return nil
	}

	if name := ObjectName(*profile.AvatarURL); name != "" {
		if err := s.Storage.DeleteFile(ctx, name); err != nil {
			return fmt.Errorf("failed to delete avatar: %w", err)
		}
	}

	if err := s.ProfileRepo.SetAvatarURL(ctx, userID, nil); err != nil {
		return err
	}
	s.Log.Info("avatar deleted", "user_id", userID)
	return nil
}

// SweepOrphanAvatars удаляет объекты бакета, на которые не ссылается ни один профиль
func (s *Service) SweepOrphanAvatars(ctx context.Context) (int, error) {
	if s.Storage == nil {
		return 0, nil
	}

	urls, err := s.ProfileRepo.ListAvatarURLs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[ObjectName(u)] = struct{}{}
	}

	objects, err := s.Storage.ListFiles(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list avatars: %w", err)
	}

	removed := 0
	var errs []error
	for _, object := range objects {
		if _, ok := referenced[object]; ok {
			continue
		}
		if err := s.Storage.DeleteFile(ctx, object); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", object, err))
			continue
		}
		removed++
	}

	if len(errs) > 0 {
		return removed, fmt.Errorf("failed to remove %d orphan avatars: %w", len(errs), errors.Join(errs...))
	}
	return removed, nil
}

// ObjectName имя объекта в бакете: последний сегмент пути URL
func ObjectName(rawURL string) string {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
