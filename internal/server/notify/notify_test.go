package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSPublisher_Publish(t *testing.T) {
	f := &fakeSNS{}
	p := NewSNSPublisher(f, "arn:aws:sns:us-east-1:123:verify")

	msg := VerificationMessage{Email: "a@b.co", Token: "tok", UserID: "u-1", Link: "http://x/verify?email=a@b.co&token=tok"}
	require.NoError(t, p.PublishVerification(context.Background(), msg))

	assert.Equal(t, "arn:aws:sns:us-east-1:123:verify", aws.ToString(f.in.TopicArn))

	var got VerificationMessage
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(f.in.Message)), &got))
	assert.Equal(t, msg, got)
}

func TestSNSPublisher_Error(t *testing.T) {
	p := NewSNSPublisher(&fakeSNS{err: errors.New("throttled")}, "arn")

	err := p.PublishVerification(context.Background(), VerificationMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logging.Nop{})
	assert.NoError(t, p.PublishVerification(context.Background(), VerificationMessage{Email: "a@b.co"}))
}
