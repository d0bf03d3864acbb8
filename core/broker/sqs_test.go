package broker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSQS struct {
	mu        sync.Mutex
	batches   [][]sqstypes.Message
	receives  int
	deleted   []string
	lastInput *sqs.ReceiveMessageInput
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.receives++
	f.lastInput = in
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func message(id, body string) sqstypes.Message {
	return sqstypes.Message{MessageId: aws.String(id), ReceiptHandle: aws.String("rh-" + id), Body: aws.String(body)}
}

func TestSQS_Run(t *testing.T) {
	api := &fakeSQS{batches: [][]sqstypes.Message{{
		message("1", "ok"),
		message("2", "fail"),
		message("3", "poison"),
	}}}
	cfg := Config{QueueURL: "https://sqs.us-east-1.amazonaws.com/123/pdf-upload-queue", Concurrency: 2, VisibilitySeconds: 30}
	s := newSQS(cfg, zap.NewNop(), nil, api)

	var mu sync.Mutex
	var handled int
	var deadlines []bool
	handler := func(ctx context.Context, body []byte) error {
		_, hasDeadline := ctx.Deadline()
		mu.Lock()
		handled++
		deadlines = append(deadlines, hasDeadline)
		mu.Unlock()
		switch string(body) {
		case "fail":
			return errors.New("store unavailable")
		case "poison":
			return poisonError{}
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, handler) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return handled == 3 && len(api.deletedHandles()) == 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.ElementsMatch(t, []string{"rh-1", "rh-3"}, api.deletedHandles())
	assert.Equal(t, []bool{true, true, true}, deadlines)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, int32(30), api.lastInput.VisibilityTimeout)
	assert.Equal(t, int32(sqsWaitSeconds), api.lastInput.WaitTimeSeconds)
	assert.Equal(t, cfg.QueueURL, aws.ToString(api.lastInput.QueueUrl))
}
