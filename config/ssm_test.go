package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParameters struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
	err   error
}

func (f *fakeParameters) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestLoadParameters(t *testing.T) {
	client := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/portfolio/prod/JWT_SECRET"), Value: aws.String("from-ssm")},
				{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("9000")},
			},
			NextToken: aws.String("page-2"),
		},
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/portfolio/prod/db/DATABASE_URL"), Value: aws.String("postgres://x")},
			},
		},
	}}

	c := map[string]string{"PORT": "8080"}
	loaded, err := loadParameters(context.Background(), client, "/portfolio/prod", c)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "from-ssm", c["JWT_SECRET"])
	assert.Equal(t, "8080", c["PORT"])
	assert.Equal(t, "postgres://x", c["DATABASE_URL"])
}

func TestLoadParametersError(t *testing.T) {
	client := &fakeParameters{err: errors.New("access denied")}
	_, err := loadParameters(context.Background(), client, "/portfolio", map[string]string{})
	assert.ErrorContains(t, err, "access denied")
}

func TestLoadSSMWithoutPath(t *testing.T) {
	loaded, err := LoadSSM(context.Background(), map[string]string{})
	require.NoError(t, err)
	assert.Zero(t, loaded)
}
