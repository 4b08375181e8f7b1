package impl

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFileService(
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	store *mockFileStore,
) usecase.FileUsecase {
	return &fileService{
		txManager: &stubTxManager{factory: &stubFactory{fileRepo: fileRepo, userRepo: userRepo}},
		fileRepo:  fileRepo,
		userRepo:  userRepo,
		store:     store,
		logger:    newDiscardLogger(),
	}
}

func TestFileService_UploadFile_Success(t *testing.T) {
	fileRepo := new(mockFileRepo)
	userRepo := new(mockUserRepo)
	store := new(mockFileStore)

	userID := uuid.New()
	userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, Username: "alice"}, nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "user_"+userID.String()+"/") && strings.HasSuffix(key, "_report.pdf")
	}), mock.Anything).Return(nil)
	fileRepo.On("CreateFile", mock.Anything, mock.AnythingOfType("*entity.FileRecord")).Return(nil)

	service := newFileService(fileRepo, userRepo, store)

	record, err := service.UploadFile(context.Background(), usecase.UploadFileInput{
		UserID:   userID,
		Filename: "report.pdf",
		Size:     9,
		Content:  strings.NewReader("pdf bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.FileTypePDF, record.FileType)
	assert.Equal(t, "alice", record.OwnerName)
	assert.Equal(t, int64(9), record.Size)
	store.AssertExpectations(t)
	fileRepo.AssertExpectations(t)
}

func TestFileService_UploadFile_RecordFailureCleansBlob(t *testing.T) {
	fileRepo := new(mockFileRepo)
	userRepo := new(mockUserRepo)
	store := new(mockFileStore)

	userID := uuid.New()
	userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, Username: "alice"}, nil)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	fileRepo.On("CreateFile", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	store.On("Delete", mock.Anything, mock.Anything).Return(nil)

	service := newFileService(fileRepo, userRepo, store)

	record, err := service.UploadFile(context.Background(), usecase.UploadFileInput{
		UserID:   userID,
		Filename: "notes.txt",
		Size:     5,
		Content:  strings.NewReader("notes"),
	})

	assert.Nil(t, record)
	assert.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFileService_DownloadFile_Success(t *testing.T) {
	fileRepo := new(mockFileRepo)
	store := new(mockFileStore)

	userID := uuid.New()
	fileID := uuid.New()
	record := &entity.FileRecord{
		ID:         fileID,
		UserID:     userID,
		Filename:   "report.pdf",
		StorageKey: "user_x/report.pdf",
		UploadDate: time.Now(),
	}

	fileRepo.On("FindFileByID", mock.Anything, fileID).Return(record, nil)
	store.On("Open", mock.Anything, "user_x/report.pdf").
		Return(io.NopCloser(strings.NewReader("pdf bytes")), nil)

	service := newFileService(fileRepo, new(mockUserRepo), store)

	out, err := service.DownloadFile(context.Background(), userID, fileID)

	require.NoError(t, err)
	defer out.Content.Close()

	data, err := io.ReadAll(out.Content)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
	assert.Equal(t, record, out.Record)
}

func TestFileService_DownloadFile_OtherOwnerNotFound(t *testing.T) {
	fileRepo := new(mockFileRepo)
	store := new(mockFileStore)

	fileID := uuid.New()
	fileRepo.On("FindFileByID", mock.Anything, fileID).
		Return(&entity.FileRecord{ID: fileID, UserID: uuid.New()}, nil)

	service := newFileService(fileRepo, new(mockUserRepo), store)

	out, err := service.DownloadFile(context.Background(), uuid.New(), fileID)

	assert.Nil(t, out)
	// Files of other users look exactly like missing files.
	assert.True(t, errors.Is(err, domainerrors.ErrFileNotFound))
	store.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func TestFileService_DeleteFile_RemovesBlobAfterRecord(t *testing.T) {
	fileRepo := new(mockFileRepo)
	store := new(mockFileStore)

	userID := uuid.New()
	fileID := uuid.New()
	fileRepo.On("FindFileByID", mock.Anything, fileID).
		Return(&entity.FileRecord{ID: fileID, UserID: userID, StorageKey: "user_x/old.txt"}, nil)
	fileRepo.On("DeleteFile", mock.Anything, fileID).Return(nil)
	store.On("Delete", mock.Anything, "user_x/old.txt").Return(nil)

	service := newFileService(fileRepo, new(mockUserRepo), store)

	require.NoError(t, service.DeleteFile(context.Background(), userID, fileID))
	store.AssertExpectations(t)
}

func TestFileService_DeleteFile_BlobFailureIsNotFatal(t *testing.T) {
	fileRepo := new(mockFileRepo)
	store := new(mockFileStore)

	userID := uuid.New()
	fileID := uuid.New()
	fileRepo.On("FindFileByID", mock.Anything, fileID).
		Return(&entity.FileRecord{ID: fileID, UserID: userID, StorageKey: "user_x/old.txt"}, nil)
	fileRepo.On("DeleteFile", mock.Anything, fileID).Return(nil)
	store.On("Delete", mock.Anything, "user_x/old.txt").Return(errors.New("bucket unavailable"))

	service := newFileService(fileRepo, new(mockUserRepo), store)

	// The record is gone, so the operation still succeeds.
	assert.NoError(t, service.DeleteFile(context.Background(), userID, fileID))
}

func TestFileService_GetStats(t *testing.T) {
	fileRepo := new(mockFileRepo)

	fileRepo.On("CountFiles", mock.Anything).Return(int64(5), nil)
	fileRepo.On("CountFilesByType", mock.Anything).Return([]entity.TypeCount{
		{FileType: entity.FileTypePDF, Count: 3},
		{FileType: entity.FileTypeText, Count: 2},
	}, nil)
	fileRepo.On("CountFilesByUser", mock.Anything).Return([]entity.UserCount{
		{Username: "alice", Count: 4},
		{Username: "bob", Count: 1},
	}, nil)

	service := newFileService(fileRepo, new(mockUserRepo), new(mockFileStore))

	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalFiles)
	assert.Len(t, stats.FilesByType, 2)
	assert.Equal(t, "alice", stats.FilesByUser[0].Username)
}

func TestFileService_ListFiles(t *testing.T) {
	fileRepo := new(mockFileRepo)

	userID := uuid.New()
	records := []*entity.FileRecord{
		{ID: uuid.New(), UserID: userID, Filename: "b.txt"},
		{ID: uuid.New(), UserID: userID, Filename: "a.txt"},
	}
	fileRepo.On("FindFilesByUserID", mock.Anything, userID).Return(records, nil)

	service := newFileService(fileRepo, new(mockUserRepo), new(mockFileStore))

	out, err := service.ListFiles(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, records, out)
}
