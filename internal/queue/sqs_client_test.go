package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSClientSendCarriesBodyAndAttributes(t *testing.T) {
	fake := &fakeSQS{}
	client := newSQSClient(fake, "https://sqs.test/queue")

	err := client.Send(context.Background(), Message{AnalysisID: "a-1", RequestID: "r-1", Version: 1})

	require.NoError(t, err)
	assert.Equal(t, "https://sqs.test/queue", aws.ToString(fake.input.QueueUrl))
	decoded, err := DecodeMessage([]byte(aws.ToString(fake.input.MessageBody)))
	require.NoError(t, err)
	assert.Equal(t, "a-1", decoded.AnalysisID)
	assert.Equal(t, "a-1", aws.ToString(fake.input.MessageAttributes[AttrAnalysisID].StringValue))
	assert.Equal(t, "r-1", aws.ToString(fake.input.MessageAttributes[AttrRequestID].StringValue))
	assert.Nil(t, fake.input.MessageGroupId, "standard queues take no group id")
}

func TestSQSClientSendSkipsEmptyRequestID(t *testing.T) {
	fake := &fakeSQS{}

	require.NoError(t, newSQSClient(fake, "q").Send(context.Background(), Message{AnalysisID: "a-1"}))

	assert.NotContains(t, fake.input.MessageAttributes, AttrRequestID)
}

func TestSQSClientSendFIFO(t *testing.T) {
	fake := &fakeSQS{}
	client := newSQSClient(fake, "https://sqs.test/jobs.fifo")

	require.NoError(t, client.Send(context.Background(), Message{AnalysisID: "a-9"}))

	assert.Equal(t, "a-9", aws.ToString(fake.input.MessageGroupId))
	assert.Equal(t, "a-9", aws.ToString(fake.input.MessageDeduplicationId))
}

func TestSQSClientSendWrapsErrors(t *testing.T) {
	boom := errors.New("throttled")

	err := newSQSClient(&fakeSQS{err: boom}, "q").Send(context.Background(), Message{AnalysisID: "a-1"})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sqs send message")
}

func TestNewSQSClientRequiresURL(t *testing.T) {
	_, err := NewSQSClient(context.Background(), " ", "us-east-1")
	assert.Error(t, err)
}
