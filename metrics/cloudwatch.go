// file: metrics/cloudwatch.go
package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"mergington-activities/logger"
)

// CloudWatchRecorder pushes each observation as a CloudWatch datum.
type CloudWatchRecorder struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchRecorder builds a recorder from the default AWS session chain.
func NewCloudWatchRecorder(namespace string) (*CloudWatchRecorder, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchRecorderWithClient(cloudwatch.New(sess), namespace), nil
}

// NewCloudWatchRecorderWithClient uses an existing client; tests pass a fake.
func NewCloudWatchRecorderWithClient(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchRecorder {
	return &CloudWatchRecorder{client: client, namespace: namespace}
}

func (r *CloudWatchRecorder) ObserveList(outcome string, elapsed time.Duration) {
	r.putMetric("ListActivitiesLatencyMs", float64(elapsed.Milliseconds()), cloudwatch.StandardUnitMilliseconds,
		map[string]string{"Outcome": outcome})
}

func (r *CloudWatchRecorder) CountMutation(action, outcome string) {
	r.putMetric("Mutations", 1, cloudwatch.StandardUnitCount,
		map[string]string{"Action": action, "Outcome": outcome})
}

func (r *CloudWatchRecorder) SetConnectedPages(count int) {
	r.putMetric("ConnectedPages", float64(count), cloudwatch.StandardUnitCount, nil)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (r *CloudWatchRecorder) putMetric(name string, value float64, unit string, dims map[string]string) {
	dimensions := make([]*cloudwatch.Dimension, 0, len(dims))
	for k, v := range dims {
		dimensions = append(dimensions, &cloudwatch.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := r.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: dimensions,
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", name, err)
	}
}
