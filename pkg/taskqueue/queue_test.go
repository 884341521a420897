package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/channels/gochannel"
	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
)

type invocation struct {
	actionName string
	args       models.ActionArguments
}

type channelExecutor struct {
	errs map[string]error
	done chan invocation
}

func newChannelExecutor() *channelExecutor {
	return &channelExecutor{errs: map[string]error{}, done: make(chan invocation, 16)}
}

func (e *channelExecutor) ExecuteAction(_ context.Context, actionName string, args models.ActionArguments) error {
	e.done <- invocation{actionName: actionName, args: args}

	return e.errs[actionName]
}

func (e *channelExecutor) wait(t *testing.T) invocation {
	t.Helper()

	select {
	case inv := <-e.done:
		return inv
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a background action")

		return invocation{}
	}
}

func startConsumer(t *testing.T, executor ActionExecutor) *WatermillQueue {
	t.Helper()

	publisher, subscriber, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewConsumer(subscriber, executor, DefaultTopic, log.Discard())

	go func() { _ = consumer.Run(ctx) }()

	return NewWatermillQueue(publisher, DefaultTopic, log.Discard())
}

func testArguments() models.ActionArguments {
	return models.ActionArguments{
		ApplicationID: 42,
		NewStatusCode: models.StatusDocumentsVerified,
		ChangeReason:  "system_triggered",
		Note:          "n",
		OldStatusCode: models.StatusScrapedDataVerified,
	}
}

func TestEnqueueRoundTrip(t *testing.T) {
	executor := newChannelExecutor()
	queue := startConsumer(t, executor)

	handle, err := queue.Enqueue(context.Background(), "send_sms_status_change", testArguments())
	require.NoError(t, err)
	assert.NotEmpty(t, handle.ID)
	assert.Equal(t, DefaultQueue, handle.Queue)

	inv := executor.wait(t)
	assert.Equal(t, "send_sms_status_change", inv.actionName)
	assert.Equal(t, testArguments(), inv.args)
}

func TestEnqueueWithQueueOption(t *testing.T) {
	executor := newChannelExecutor()
	queue := startConsumer(t, executor)

	handle, err := queue.Enqueue(context.Background(), "send_push_notification",
		testArguments(), protocol.WithQueue("notifications"))
	require.NoError(t, err)
	assert.Equal(t, "notifications", handle.Queue)

	executor.wait(t)
}

func TestEnqueueWithCountdownDelaysDelivery(t *testing.T) {
	executor := newChannelExecutor()
	queue := startConsumer(t, executor)

	start := time.Now()

	_, err := queue.Enqueue(context.Background(), "bypass_verification_calls",
		testArguments(), protocol.WithCountdown(100*time.Millisecond))
	require.NoError(t, err)

	executor.wait(t)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestEnqueueWithPastETAPublishesImmediately(t *testing.T) {
	executor := newChannelExecutor()
	queue := startConsumer(t, executor)

	_, err := queue.Enqueue(context.Background(), "send_sms_status_change",
		testArguments(), protocol.WithETA(time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	executor.wait(t)
}

func TestConsumerKeepsDrainingAfterFailures(t *testing.T) {
	executor := newChannelExecutor()
	executor.errs["retired_action"] = &registry.DeprecatedActionError{Name: "retired_action"}
	queue := startConsumer(t, executor)

	ctx := context.Background()

	// A deprecated job is dropped; the next job still gets through.
	_, err := queue.Enqueue(ctx, "retired_action", testArguments())
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, "send_sms_status_change", testArguments())
	require.NoError(t, err)

	assert.Equal(t, "retired_action", executor.wait(t).actionName)
	assert.Equal(t, "send_sms_status_change", executor.wait(t).actionName)
}
