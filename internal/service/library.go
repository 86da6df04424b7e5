package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/id"
	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/listenupapp/listenup-shelf/internal/store"
	"github.com/listenupapp/listenup-shelf/internal/validation"
)

// Indexer keeps search documents in step with stored items.
type Indexer interface {
	IndexItem(ctx context.Context, item *media.LibraryItem) error
	DeleteItem(ctx context.Context, itemID string) error
}

// LibraryService orchestrates item and library operations.
//
// Every change to an item runs under that item's lock: load, mutate through
// the media track operations, persist, reindex. Index failures are logged and
// do not fail the operation; the store is the source of truth.
type LibraryService struct {
	store   *store.Store
	indexer Indexer
	logger  *slog.Logger
	locks   *keyedMutex
	now     func() time.Time
}

// NewLibraryService creates a new library service. indexer may be nil when
// search is disabled.
func NewLibraryService(store *store.Store, indexer Indexer, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:   store,
		indexer: indexer,
		logger:  orDiscard(logger),
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// ImportItem decodes a library item document and stores it, replacing any
// item with the same id. Returns the stored item and whether it was new.
func (s *LibraryService) ImportItem(ctx context.Context, data []byte) (*media.LibraryItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	item, err := media.Decode(data)
	if err != nil {
		return nil, false, err
	}

	unlock := s.locks.lock(item.ID)
	defer unlock()

	created, err := s.store.SaveItem(ctx, item)
	if err != nil {
		return nil, false, storeError(err, "import item %s", item.ID)
	}
	s.reindex(ctx, item)

	if err := item.CheckInvariants(); err != nil {
		s.logger.Warn("imported item is inconsistent",
			"item_id", item.ID,
			"error", err,
		)
	}

	s.logger.Info("item imported",
		"item_id", item.ID,
		"media_type", item.MediaType,
		"title", item.Title(),
		"created", created,
	)

	return item, created, nil
}

// GetItem returns the item with the given id.
func (s *LibraryService) GetItem(ctx context.Context, itemID string) (*media.LibraryItem, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, storeError(err, "get item %s", itemID)
	}
	return item, nil
}

// GetItemByPath returns the item stored at the given path.
func (s *LibraryService) GetItemByPath(ctx context.Context, path string) (*media.LibraryItem, error) {
	item, err := s.store.GetItemByPath(ctx, path)
	if err != nil {
		return nil, storeError(err, "get item at %s", path)
	}
	return item, nil
}

// ListOptions filters ListItems.
type ListOptions struct {
	LibraryID string          // Empty = all libraries
	MediaType media.MediaKind // Empty = both kinds
	LocalOnly bool            // Only items with local audio
}

// ListItems returns matching items ordered by title.
func (s *LibraryService) ListItems(ctx context.Context, opts ListOptions) ([]*media.LibraryItem, error) {
	var items []*media.LibraryItem
	for item, err := range s.store.ListItems(ctx) {
		if err != nil {
			return nil, storeError(err, "list items")
		}
		if opts.LibraryID != "" && item.LibraryID != opts.LibraryID {
			continue
		}
		if opts.MediaType != "" && item.MediaType != opts.MediaType {
			continue
		}
		if opts.LocalOnly && !hasLocalAudio(item) {
			continue
		}
		items = append(items, item)
	}

	sortByTitle(items,
		func(i *media.LibraryItem) string { return i.Title() },
		func(i *media.LibraryItem) string { return i.ID },
	)
	return items, nil
}

// ExportItem returns the stored item encoded as a library item document.
func (s *LibraryService) ExportItem(ctx context.Context, itemID string) ([]byte, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return media.Encode(item)
}

// ExportAll encodes every stored item in key order, a page at a time, and
// hands each document to fn. It returns the number of items exported.
func (s *LibraryService) ExportAll(ctx context.Context, pageSize int, fn func(itemID string, data []byte) error) (int, error) {
	params := store.PaginationParams{Limit: pageSize}
	exported := 0
	for {
		page, err := s.store.PageItems(ctx, params)
		if err != nil {
			return exported, storeError(err, "page items")
		}
		for _, item := range page.Items {
			data, err := media.Encode(item)
			if err != nil {
				return exported, err
			}
			if err := fn(item.ID, data); err != nil {
				return exported, err
			}
			exported++
		}
		if !page.HasMore {
			return exported, nil
		}
		params.Cursor = page.NextCursor
	}
}

// DeleteItem removes the item from the store and the index.
func (s *LibraryService) DeleteItem(ctx context.Context, itemID string) error {
	unlock := s.locks.lock(itemID)
	defer unlock()

	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return storeError(err, "delete item %s", itemID)
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return storeError(err, "delete item %s", itemID)
	}
	if s.indexer != nil {
		if err := s.indexer.DeleteItem(ctx, itemID); err != nil {
			s.logger.Warn("failed to remove item from search index", "item_id", itemID, "error", err)
		}
	}

	s.logger.Info("item deleted", "item_id", itemID)
	return nil
}

// CheckItem reports invariant violations of the stored item, or nil.
func (s *LibraryService) CheckItem(ctx context.Context, itemID string) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	return item.CheckInvariants()
}

// LocalFile describes an audio file on this device that should back a track.
type LocalFile struct {
	ID       string  `json:"id"`                        // Local file id; generated when empty
	Path     string  `json:"path" validate:"required"`  // Absolute path of the file
	Duration float64 `json:"duration" validate:"gte=0"` // Seconds
	Title    string  `json:"title"`                     // Defaults to the file name
	MimeType string  `json:"mimeType"`
}

// Track builds the audio track for the file. The caller places it in the
// sequence by setting Index and StartOffset.
func (f LocalFile) Track() (media.AudioTrack, error) {
	localID := f.ID
	if localID == "" {
		generated, err := id.LocalFile()
		if err != nil {
			return media.AudioTrack{}, domainerrors.Internalf("generate local file id: %v", err)
		}
		localID = generated
	}
	name := filepath.Base(f.Path)
	title := f.Title
	if title == "" {
		title = name
	}
	return media.AudioTrack{
		Index:       1,
		Duration:    f.Duration,
		Title:       title,
		ContentURL:  "file://" + f.Path,
		MimeType:    f.MimeType,
		IsLocal:     true,
		LocalFileID: &localID,
		Metadata: &media.FileMetadata{
			Filename: name,
			Ext:      filepath.Ext(name),
			Path:     f.Path,
			RelPath:  name,
		},
	}, nil
}

// AddLocalTrack makes a local file available on the item. For a book the
// track is appended after the last one; for a podcast it becomes a new
// local episode.
func (s *LibraryService) AddLocalTrack(ctx context.Context, itemID string, file LocalFile) (*media.LibraryItem, error) {
	if err := validation.Default().Validate(&file); err != nil {
		return nil, err
	}
	track, err := file.Track()
	if err != nil {
		return nil, err
	}
	localID, _ := track.LocalID()

	return s.mutate(ctx, itemID, "add_local_track", func(item *media.LibraryItem, log *slog.Logger) error {
		if b, ok := item.Book(); ok {
			if _, exists := b.FindTrackByLocalFileID(localID); exists {
				return domainerrors.Conflictf("item %s already has a track for local file %s", item.ID, localID)
			}
			track.Index = len(b.Tracks) + 1
			track.StartOffset = b.TotalDuration()
		}
		if p, ok := item.Podcast(); ok {
			for _, existing := range p.LocalFileIDs() {
				if existing == localID {
					return domainerrors.Conflictf("item %s already has an episode for local file %s", item.ID, localID)
				}
			}
		}

		item.Media.AddAudioTrack(track)
		log.Info("local track added", "local_file_id", localID, "duration", track.Duration)
		return nil
	})
}

// RemoveLocalTrack makes a local file unavailable on the item. Removing a
// file the item does not reference still renumbers a book's tracks.
func (s *LibraryService) RemoveLocalTrack(ctx context.Context, itemID, localFileID string) (*media.LibraryItem, error) {
	return s.mutate(ctx, itemID, "remove_local_track", func(item *media.LibraryItem, log *slog.Logger) error {
		before := len(item.Media.AudioTracks())
		item.Media.RemoveAudioTrack(localFileID)
		log.Info("local track removed",
			"local_file_id", localFileID,
			"removed", before-len(item.Media.AudioTracks()),
		)
		return nil
	})
}

// SyncLocalTracks replaces the item's local audio with tracks. For a book
// this is the whole track list; for a podcast, remote episodes are kept and
// local episodes follow tracks.
func (s *LibraryService) SyncLocalTracks(ctx context.Context, itemID string, tracks []media.AudioTrack) (*media.LibraryItem, error) {
	return s.mutate(ctx, itemID, "sync_local_tracks", func(item *media.LibraryItem, log *slog.Logger) error {
		item.Media.SetAudioTracks(tracks)
		log.Info("local tracks synced", "tracks", len(tracks))
		return nil
	})
}

// mutate runs fn on the stored item under the item's lock and persists the
// result. fn may reject the change by returning an error, in which case
// nothing is written.
func (s *LibraryService) mutate(ctx context.Context, itemID, op string, fn func(*media.LibraryItem, *slog.Logger) error) (*media.LibraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(itemID)
	defer unlock()

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, storeError(err, "%s: get item %s", op, itemID)
	}

	log := (&logger.Logger{Logger: s.logger}).
		WithOperation(uuid.NewString()).
		WithFields(map[string]any{"operation": op, "item_id": itemID}).
		Logger

	if err := fn(item, log); err != nil {
		return nil, err
	}

	item.UpdatedAt = s.now().UnixMilli()
	if _, err := s.store.SaveItem(ctx, item); err != nil {
		return nil, storeError(err, "%s: save item %s", op, itemID)
	}
	s.reindex(ctx, item)

	if err := item.CheckInvariants(); err != nil {
		log.Warn("item is inconsistent after change", "error", err)
	}

	return item, nil
}

func (s *LibraryService) reindex(ctx context.Context, item *media.LibraryItem) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexItem(ctx, item); err != nil {
		s.logger.Warn("failed to index item", "item_id", item.ID, "error", err)
	}
}

func hasLocalAudio(item *media.LibraryItem) bool {
	if item.IsLocal() {
		return true
	}
	switch m := item.Media.(type) {
	case *media.Book:
		return m.HasLocalTracks()
	case *media.Podcast:
		return len(m.LocalEpisodes()) > 0
	}
	return false
}

// ImportLibrary decodes a library document and stores it.
func (s *LibraryService) ImportLibrary(ctx context.Context, data []byte) (*media.Library, bool, error) {
	lib, err := media.DecodeLibrary(data)
	if err != nil {
		return nil, false, err
	}
	if err := validateLibrary(lib); err != nil {
		return nil, false, err
	}
	created, err := s.store.SaveLibrary(ctx, lib)
	if err != nil {
		return nil, false, storeError(err, "import library %s", lib.ID)
	}

	s.logger.Info("library imported",
		"library_id", lib.ID,
		"name", lib.Name,
		"media_type", lib.MediaType,
		"folders", len(lib.Folders),
		"created", created,
	)
	return lib, created, nil
}

// CreateLibrary stores a new, empty library with a generated id.
func (s *LibraryService) CreateLibrary(ctx context.Context, name string, kind media.MediaKind, folders ...string) (*media.Library, error) {
	libID, err := id.Library()
	if err != nil {
		return nil, domainerrors.Internalf("generate library id: %v", err)
	}
	lib := &media.Library{
		ID:        libID,
		Name:      name,
		MediaType: kind,
		Folders:   []media.Folder{},
	}
	for _, path := range folders {
		folderID, err := id.Folder()
		if err != nil {
			return nil, domainerrors.Internalf("generate folder id: %v", err)
		}
		lib.AddFolder(media.Folder{ID: folderID, FullPath: path})
	}

	if err := validateLibrary(lib); err != nil {
		return nil, err
	}
	if err := s.store.Libraries.Create(ctx, lib.ID, lib); err != nil {
		return nil, storeError(err, "create library %q", name)
	}

	s.logger.Info("library created", "library_id", lib.ID, "name", lib.Name, "media_type", kind)
	return lib, nil
}

// libraryRules are the constraints a library must meet before it is stored.
type libraryRules struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required,max=200"`
	MediaType string   `json:"mediaType" validate:"oneof=book podcast"`
	Folders   []string `json:"folders" validate:"dive,required"`
}

func validateLibrary(lib *media.Library) error {
	rules := libraryRules{
		ID:        lib.ID,
		Name:      lib.Name,
		MediaType: string(lib.MediaType),
		Folders:   make([]string, 0, len(lib.Folders)),
	}
	for _, f := range lib.Folders {
		rules.Folders = append(rules.Folders, f.ID)
	}
	return validation.Default().Validate(&rules)
}

// GetLibrary returns a library by id, or by name when no id matches.
func (s *LibraryService) GetLibrary(ctx context.Context, idOrName string) (*media.Library, error) {
	lib, err := s.store.GetLibrary(ctx, idOrName)
	if err == nil {
		return lib, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, storeError(err, "get library %s", idOrName)
	}
	lib, err = s.store.GetLibraryByName(ctx, idOrName)
	if err != nil {
		return nil, storeError(err, "get library %s", idOrName)
	}
	return lib, nil
}

// ListLibraries returns every library ordered by name.
func (s *LibraryService) ListLibraries(ctx context.Context) ([]*media.Library, error) {
	libs, err := s.store.ListLibraries(ctx)
	if err != nil {
		return nil, storeError(err, "list libraries")
	}
	sortByTitle(libs,
		func(l *media.Library) string { return l.Name },
		func(l *media.Library) string { return l.ID },
	)
	return libs, nil
}
