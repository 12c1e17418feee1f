package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/xavierca1/garage-leads/internal/entity"
)

// SESAPI is the subset of *sesv2.Client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	client SESAPI
	from   string
	brand  entity.Brand
}

// NewSESSender uses static credentials when given, otherwise the default
// AWS credential chain.
func NewSESSender(ctx context.Context, region, accessKey, secretKey, from string, brand entity.Brand) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
	}

	return NewSESSenderWithClient(sesv2.NewFromConfig(cfg), from, brand), nil
}

func NewSESSenderWithClient(client SESAPI, from string, brand entity.Brand) *SESSender {
	return &SESSender{client: client, from: from, brand: brand}
}

func (s *SESSender) SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error {
	body, err := RenderCouponEmail(coupon, s.brand)
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.brand.Name, s.from)),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(CouponSubject(coupon)), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("offer_code"), Value: aws.String(coupon.Code)},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("erro ao enviar email SES: %w", err)
	}
	return nil
}
