package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hapkiduki/pumpkin-price/internal/application/service"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/logging"
	"github.com/hapkiduki/pumpkin-price/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestForm() (*Form, *service.FormService, *bytes.Buffer) {
	log := logging.NewAdapter(logger.FromZap(zap.NewNop()))
	svc := service.NewFormService(entity.NewCalculator(), log, nil)
	var out bytes.Buffer
	return NewForm(svc, &out), svc, &out
}

func TestForm_Run(t *testing.T) {
	form, svc, out := newTestForm()

	input := strings.Join([]string{
		"circumference 80",
		"height 20",
		"imperial",
		"height abc",
		"quit",
		"height 30",
	}, "\n")
	require.NoError(t, form.Run(context.Background(), strings.NewReader(input)))

	lines := out.String()
	assert.Contains(t, lines, "[metric] cost 0.60 ¢/kg | circumference 0 cm | height 0 cm | price -")
	assert.Contains(t, lines, "[metric] cost 0.60 ¢/kg | circumference 80 cm | height 20 cm | price $3.41 (5.69 kg)")
	assert.Contains(t, lines, "[imperial] cost 0.60 ¢/lb | circumference 80 cm | height 20 cm | price $7.52 (12.54 lb)")
	assert.Contains(t, lines, "height ? cm | price -")

	// Lines after quit are not applied.
	assert.Equal(t, uint64(4), svc.Snapshot(context.Background()).Revision)
}

func TestForm_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown command", func(t *testing.T) {
		form, _, _ := newTestForm()
		err := form.Handle(ctx, "weight 10")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown command "weight"`)
	})

	t.Run("unknown unit system", func(t *testing.T) {
		form, _, _ := newTestForm()
		err := form.Handle(ctx, "unit stone")
		assert.ErrorIs(t, err, entity.ErrUnknownUnitSystem)
	})

	t.Run("unit command", func(t *testing.T) {
		form, svc, _ := newTestForm()
		require.NoError(t, form.Handle(ctx, "unit Imperial"))
		assert.Equal(t, "imperial", svc.Snapshot(ctx).Input.UnitSystem.String())
	})

	t.Run("blank and help", func(t *testing.T) {
		form, svc, out := newTestForm()
		require.NoError(t, form.Handle(ctx, "   "))
		require.NoError(t, form.Handle(ctx, "help"))
		assert.Contains(t, out.String(), "Commands:")
		assert.Equal(t, uint64(0), svc.Snapshot(ctx).Revision)
	})

	t.Run("reset", func(t *testing.T) {
		form, _, out := newTestForm()
		require.NoError(t, form.Handle(ctx, "cost 2"))
		require.NoError(t, form.Handle(ctx, "reset"))
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "price -"))
		assert.Contains(t, out.String(), "[metric] cost 0.60")
	})

	t.Run("quit", func(t *testing.T) {
		form, _, _ := newTestForm()
		assert.ErrorIs(t, form.Handle(ctx, "QUIT"), ErrQuit)
	})
}

func TestForm_RunReportsErrorsAndContinues(t *testing.T) {
	form, svc, out := newTestForm()

	require.NoError(t, form.Run(context.Background(), strings.NewReader("bogus\ncost 1\n")))
	assert.Contains(t, out.String(), "error: unknown command")
	assert.Equal(t, 1.0, svc.Snapshot(context.Background()).Input.CostPerUnit)
}

func TestForm_RunCancelled(t *testing.T) {
	form, _, _ := newTestForm()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := form.Run(ctx, strings.NewReader("cost 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
