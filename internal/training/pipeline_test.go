package training_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fraudrisk/internal/dataset"
	"fraudrisk/internal/training"
	mocktraining "fraudrisk/internal/training/mock"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/forest"
	"fraudrisk/pkg/serrors"
	"fraudrisk/pkg/storage"
	mockstorage "fraudrisk/pkg/storage/mock"
)

func newPipeline(saver training.ModelSaver) *training.Pipeline {
	return training.NewPipeline(
		dataset.NewBuilder(dataset.NewPlaceholderExtractor(dataset.DefaultPlaceholders()), dataset.DefaultLabels()),
		training.NewEngine(training.WithClock(fixedClock)),
		saver,
	)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestPipeline_RunDataset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var buf strings.Builder
	require.NoError(t, dataset.WriteDataset(&buf, syntheticDataset(100, 8)))
	path := writeFile(t, "dataset.csv", buf.String())

	saver := mocktraining.NewMockModelSaver(ctrl)
	var saved domain.EvaluationReport
	saver.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, model *forest.Forest, report domain.EvaluationReport) error {
			require.NotNil(t, model)
			saved = report

			return nil
		})

	report, err := newPipeline(saver).Run(context.Background(), training.Source{Path: path, Format: domain.SourceFormatDataset})
	require.NoError(t, err)
	require.Equal(t, saved, report)
	require.Equal(t, 20, report.TestSize)
}

func TestPipeline_RunRaw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// placeholders only vary has_ssl, which follows the label here
	var b strings.Builder
	b.WriteString("URL,Label\n")
	for i := range 50 {
		if i%2 == 0 {
			b.WriteString("https://good-" + uuid.NewString() + ".com/,good\n")
		} else {
			b.WriteString("http://bad-" + uuid.NewString() + ".net/login,bad\n")
		}
	}
	path := writeFile(t, "raw.csv", b.String())

	saver := mocktraining.NewMockModelSaver(ctrl)
	saver.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	report, err := newPipeline(saver).Run(context.Background(), training.Source{Path: path, Format: domain.SourceFormatRaw})
	require.NoError(t, err)
	require.InDelta(t, 1.0, report.Accuracy, 1e-12)
	require.Equal(t, 50, report.TrainSize+report.TestSize)
}

func TestPipeline_Failures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	saver := mocktraining.NewMockModelSaver(ctrl)
	p := newPipeline(saver)
	ctx := context.Background()

	_, err := p.Run(ctx, training.Source{Path: filepath.Join(t.TempDir(), "missing.csv"), Format: domain.SourceFormatRaw})
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.True(t, training.IsPermanent(err))

	path := writeFile(t, "bad.csv", "domain,spam_score\n")
	_, err = p.Run(ctx, training.Source{Path: path, Format: domain.SourceFormatDataset})
	require.True(t, training.IsPermanent(err))

	secret := writeFile(t, "token.txt", "s3cr3t-token,other\n")
	_, err = p.Run(ctx, training.Source{Path: secret, Format: domain.SourceFormatRaw})
	require.True(t, training.IsPermanent(err))
	require.NotContains(t, err.Error(), "s3cr3t")

	_, err = p.Run(ctx, training.Source{Path: path, Format: "parquet"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	var buf strings.Builder
	require.NoError(t, dataset.WriteDataset(&buf, syntheticDataset(60, 9)))
	path = writeFile(t, "dataset.csv", buf.String())
	saver.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	_, err = p.Run(ctx, training.Source{Path: path, Format: domain.SourceFormatDataset})
	require.ErrorContains(t, err, "disk full")
	require.False(t, training.IsPermanent(err))
}

func TestTrainer_Enqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	strg := mockstorage.NewMockStorage(ctrl)
	tx := mockstorage.NewMockAllStorage(ctrl)
	tr := training.NewTrainer(strg, mocktraining.NewMockRunner(ctrl), training.Options{MaxAttempts: 3, DataDir: "/data"})

	runID := domain.RunID(uuid.New())
	src := training.Source{Path: "/data/raw.csv", Format: domain.SourceFormatRaw}

	strg.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cb func(storage.AllStorage) error) error { return cb(tx) })
	tx.EXPECT().StoreRun(gomock.Any(), domain.TrainingRun{
		Source: src.Path,
		Format: src.Format,
		Status: domain.RunStatusPending,
	}).Return(&domain.TrainingRun{ID: runID, Source: src.Path, Format: src.Format, Status: domain.RunStatusPending}, nil)
	tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), nil).
		DoAndReturn(func(_ context.Context, jobArgs river.JobArgs, _ *river.InsertOpts) (bool, error) {
			args, ok := jobArgs.(training.JobArgs)
			require.True(t, ok)
			require.Equal(t, uuid.UUID(runID), args.RunID)
			require.Equal(t, src, args.Source())
			require.Equal(t, 3, args.InsertOpts().MaxAttempts)
			require.Equal(t, training.Queue, args.InsertOpts().Queue)

			return true, nil
		})

	run, err := tr.Enqueue(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, runID, run.ID)

	_, err = tr.Enqueue(context.Background(), training.Source{Path: "x.csv", Format: "xml"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	_, err = tr.Enqueue(context.Background(), training.Source{Format: domain.SourceFormatRaw})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	// sources outside the data directory never reach storage
	for _, path := range []string{"/etc/passwd", "../etc/passwd", "/data/../etc/passwd", "/data", "/database/x.csv"} {
		_, err = tr.Enqueue(context.Background(), training.Source{Path: path, Format: domain.SourceFormatRaw})
		require.ErrorIs(t, err, serrors.ErrBadRequest, path)
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()

	got, err := training.ResolveSource(dir, "corpora/raw.csv")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "corpora", "raw.csv"), got)

	got, err = training.ResolveSource(dir, filepath.Join(dir, "a", "..", "ds.csv"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "ds.csv"), got)

	for _, path := range []string{"..", "../x.csv", "a/../../x.csv", "/etc/passwd", dir, dir + "-other/x.csv"} {
		_, err = training.ResolveSource(dir, path)
		require.ErrorIs(t, err, serrors.ErrBadRequest, path)
	}

	_, err = training.ResolveSource("", "x.csv")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestTrainer_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	strg := mockstorage.NewMockStorage(ctrl)
	tr := training.NewTrainer(strg, mocktraining.NewMockRunner(ctrl), training.Options{})
	id := domain.RunID(uuid.New())

	strg.EXPECT().RunByID(gomock.Any(), id).Return(nil, nil)
	_, err := tr.Run(context.Background(), id)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	strg.EXPECT().RunByID(gomock.Any(), id).Return(&domain.TrainingRun{ID: id, Status: domain.RunStatusCompleted}, nil)
	run, err := tr.Run(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusCompleted, run.Status)
}

func TestTrainer_Process(t *testing.T) {
	src := training.Source{Path: "/data/ds.csv", Format: domain.SourceFormatDataset}
	transient := errors.New("connection reset")
	permanent := serrors.Wrap(training.ErrInsufficientData, errors.New("one class"), "bad data")

	cases := []struct {
		name        string
		runErr      error
		lastAttempt bool
		wantStatus  domain.RunStatus
	}{
		{"success", nil, false, domain.RunStatusCompleted},
		{"transient failure is retried", transient, false, domain.RunStatusPending},
		{"transient failure on last attempt", transient, true, domain.RunStatusFailed},
		{"permanent failure", permanent, false, domain.RunStatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			strg := mockstorage.NewMockStorage(ctrl)
			runner := mocktraining.NewMockRunner(ctrl)
			tr := training.NewTrainer(strg, runner, training.Options{})
			id := domain.RunID(uuid.New())
			report := domain.EvaluationReport{Accuracy: 0.9}

			runner.EXPECT().Run(gomock.Any(), src).Return(report, tc.runErr)
			strg.EXPECT().UpdateRun(gomock.Any(), id, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ domain.RunID, u storage.RunUpdates) (*domain.TrainingRun, error) {
					require.Equal(t, tc.wantStatus, u.Status)
					require.NotNil(t, u.LastError)
					if tc.runErr == nil {
						require.Equal(t, &report, u.Report)
						require.Empty(t, *u.LastError)
					} else {
						require.Nil(t, u.Report)
						require.Equal(t, tc.runErr.Error(), *u.LastError)
					}

					return &domain.TrainingRun{ID: id, Status: u.Status}, nil
				})

			err := tr.Process(context.Background(), id, src, tc.lastAttempt)
			if tc.runErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.runErr)
			}
		})
	}
}
