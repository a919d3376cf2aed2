package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sentitube/domain/model"
	"sentitube/usecase"
)

// Mock implementations
type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoMetadata), args.Error(1)
}

func (m *MockYouTube) ListCommentPage(ctx context.Context, videoID, pageToken string) (*model.CommentPage, error) {
	args := m.Called(ctx, videoID, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommentPage), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (model.SentimentResult, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(model.SentimentResult), args.Error(1)
}

type MockAnalysisStore struct {
	mock.Mock
}

func (m *MockAnalysisStore) Save(ctx context.Context, video *model.Video, analysis *model.Analysis, comments []model.Comment) error {
	args := m.Called(ctx, video, analysis, comments)
	return args.Error(0)
}

func (m *MockAnalysisStore) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AnalysisSummary, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	var summaries []model.AnalysisSummary
	if args.Get(0) != nil {
		summaries = args.Get(0).([]model.AnalysisSummary)
	}
	return summaries, args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalysisStore) GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*model.AnalysisDetail, error) {
	args := m.Called(ctx, analysisID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisDetail), args.Error(1)
}

func (m *MockAnalysisStore) GetLatestAnalysis(ctx context.Context, videoID, userID uuid.UUID) (*model.Analysis, error) {
	args := m.Called(ctx, videoID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *MockAnalysisStore) GetComments(ctx context.Context, analysisID uuid.UUID, page, limit int, sentiment model.Sentiment) ([]model.Comment, int64, error) {
	args := m.Called(ctx, analysisID, page, limit, sentiment)
	var comments []model.Comment
	if args.Get(0) != nil {
		comments = args.Get(0).([]model.Comment)
	}
	return comments, args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalysisStore) GetAllComments(ctx context.Context, analysisID, userID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, analysisID, userID)
	var comments []model.Comment
	if args.Get(0) != nil {
		comments = args.Get(0).([]model.Comment)
	}
	return comments, args.Error(1)
}

func (m *MockAnalysisStore) Delete(ctx context.Context, videoID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, videoID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AnalysisCompleted(ctx context.Context, event *model.AnalysisCompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newAnalyzer(yt *MockYouTube, cl *MockClassifier, st *MockAnalysisStore, notifiers ...*MockNotifier) usecase.IAnalyzerUsecase {
	fetcher := usecase.NewCommentFetcher(yt, 100, 10000, 2).WithBackoff(0)
	if len(notifiers) == 0 {
		return usecase.NewAnalyzerUsecase(yt, cl, st, nil, fetcher)
	}
	return usecase.NewAnalyzerUsecase(yt, cl, st, nil, fetcher, notifiers[0])
}

func TestAnalyzerUsecase_Analyze_Success(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)
	mockNotifier := new(MockNotifier)
	userID := uuid.New()

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{
			YouTubeVideoID: "dQw4w9WgXcQ",
			Title:          "Some Title",
			ChannelName:    "Some Channel",
			LikeCount:      12,
			CommentCount:   3,
		}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "love it", IsTopLevel: true},
				{CommentID: "c2", Author: "b", Text: "meh", IsTopLevel: true},
				{CommentID: "c3", Author: "c", Text: "terrible", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "love it").
		Return(model.SentimentResult{Label: model.SentimentPositive, Score: 0.9}, nil)
	mockClassifier.On("Classify", mock.Anything, "meh").
		Return(model.SentimentResult{Label: model.SentimentNeutral, Score: 0.5}, nil)
	mockClassifier.On("Classify", mock.Anything, "terrible").
		Return(model.SentimentResult{Label: model.SentimentNegative, Score: 0.8}, nil)
	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockNotifier.On("AnalysisCompleted", mock.Anything, mock.Anything).Return(nil)

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore, mockNotifier)
	res, err := analyzer.Analyze(context.Background(), testURL, userID)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalComments)
	assert.Equal(t, 1, res.SentimentDistribution.Positive)
	assert.Equal(t, 1, res.SentimentDistribution.Neutral)
	assert.Equal(t, 1, res.SentimentDistribution.Negative)
	assert.Equal(t, "dQw4w9WgXcQ", res.Video.ID)

	savedAnalysis := mockStore.Calls[0].Arguments.Get(2).(*model.Analysis)
	savedComments := mockStore.Calls[0].Arguments.Get(3).([]model.Comment)
	assert.Equal(t, userID, savedAnalysis.UserID)
	assert.Equal(t, savedAnalysis.TotalComments,
		savedAnalysis.PositiveCount+savedAnalysis.NeutralCount+savedAnalysis.NegativeCount)
	assert.Len(t, savedComments, savedAnalysis.TotalComments)

	mockNotifier.AssertCalled(t, "AnalysisCompleted", mock.Anything, mock.Anything)
}

func TestAnalyzerUsecase_Analyze_EmptyAfterSanitizeExcluded(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)
	userID := uuid.New()

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{YouTubeVideoID: "dQw4w9WgXcQ"}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "<b></b>", IsTopLevel: true},
				{CommentID: "c2", Author: "b", Text: "actual words", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "actual words").
		Return(model.SentimentResult{Label: model.SentimentPositive, Score: 0.7}, nil)
	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore)
	res, err := analyzer.Analyze(context.Background(), testURL, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalComments)
	savedComments := mockStore.Calls[0].Arguments.Get(3).([]model.Comment)
	assert.Len(t, savedComments, 1)
	assert.Equal(t, "c2", savedComments[0].ID)
	mockClassifier.AssertNumberOfCalls(t, "Classify", 1)
}

func TestAnalyzerUsecase_Analyze_ClassifierFailureAborts(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{YouTubeVideoID: "dQw4w9WgXcQ"}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "fine", IsTopLevel: true},
				{CommentID: "c2", Author: "b", Text: "kaboom", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "fine").
		Return(model.SentimentResult{Label: model.SentimentPositive, Score: 0.6}, nil)
	mockClassifier.On("Classify", mock.Anything, "kaboom").
		Return(model.SentimentResult{}, errors.New("inference timeout"))

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore)
	_, err := analyzer.Analyze(context.Background(), testURL, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAnalysisFailed))
	mockStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzerUsecase_Analyze_StoreFailureIsAnalysisFailed(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{YouTubeVideoID: "dQw4w9WgXcQ"}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "fine", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "fine").
		Return(model.SentimentResult{Label: model.SentimentNeutral, Score: 0.5}, nil)
	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("deadlock detected"))

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore)
	_, err := analyzer.Analyze(context.Background(), testURL, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAnalysisFailed))
}

func TestAnalyzerUsecase_Analyze_InvalidURLPropagates(t *testing.T) {
	analyzer := newAnalyzer(new(MockYouTube), new(MockClassifier), new(MockAnalysisStore))
	_, err := analyzer.Analyze(context.Background(), "http://malicious.com/v=dQw4w9WgXcQ", uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestAnalyzerUsecase_Analyze_VideoNotFoundPropagates(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(nil, model.ErrVideoNotFound)

	analyzer := newAnalyzer(mockYouTube, new(MockClassifier), new(MockAnalysisStore))
	_, err := analyzer.Analyze(context.Background(), testURL, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrVideoNotFound))
}

func TestAnalyzerUsecase_Analyze_ReturnedVideoIDDrivesCommentQueries(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)
	userID := uuid.New()
	existingVideoID := uuid.New()

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{YouTubeVideoID: "dQw4w9WgXcQ"}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "fine", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "fine").
		Return(model.SentimentResult{Label: model.SentimentPositive, Score: 0.6}, nil)
	// The upsert adopts a pre-existing video row, like the repository does.
	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			video := args.Get(1).(*model.Video)
			video.ID = existingVideoID
			args.Get(2).(*model.Analysis).VideoID = existingVideoID
		}).Return(nil)

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore)
	res, err := analyzer.Analyze(context.Background(), testURL, userID)
	require.NoError(t, err)

	// The response must hand back the id the per-video endpoints accept.
	returnedID, err := uuid.Parse(res.Video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, existingVideoID, returnedID)

	analysisID := uuid.New()
	mockStore.On("GetLatestAnalysis", mock.Anything, returnedID, userID).
		Return(&model.Analysis{ID: analysisID, UserID: userID, VideoID: returnedID}, nil)
	mockStore.On("GetComments", mock.Anything, analysisID, 1, 20, model.Sentiment("")).
		Return([]model.Comment{
			{ID: "c1", Author: "a", Text: "fine", Sentiment: model.SentimentPositive, IsTopLevel: true},
		}, int64(1), nil)

	queries := usecase.NewAnalysisUsecase(mockStore)
	comments, err := queries.GetComments(context.Background(), returnedID, userID, 1, 20, "")
	require.NoError(t, err)
	require.Len(t, comments.Items, 1)
	assert.Equal(t, "c1", comments.Items[0].ID)
}

func TestAnalyzerUsecase_Analyze_NotifierFailureIsBestEffort(t *testing.T) {
	mockYouTube := new(MockYouTube)
	mockClassifier := new(MockClassifier)
	mockStore := new(MockAnalysisStore)
	mockNotifier := new(MockNotifier)

	mockYouTube.On("GetVideoMetadata", mock.Anything, "dQw4w9WgXcQ").
		Return(&model.VideoMetadata{YouTubeVideoID: "dQw4w9WgXcQ"}, nil)
	mockYouTube.On("ListCommentPage", mock.Anything, "dQw4w9WgXcQ", "").
		Return(&model.CommentPage{
			Comments: []model.RawComment{
				{CommentID: "c1", Author: "a", Text: "fine", IsTopLevel: true},
			},
		}, nil)
	mockClassifier.On("Classify", mock.Anything, "fine").
		Return(model.SentimentResult{Label: model.SentimentPositive, Score: 0.6}, nil)
	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockNotifier.On("AnalysisCompleted", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable"))

	analyzer := newAnalyzer(mockYouTube, mockClassifier, mockStore, mockNotifier)
	res, err := analyzer.Analyze(context.Background(), testURL, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalComments)
}
