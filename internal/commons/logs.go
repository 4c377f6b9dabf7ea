package commons

import "github.com/aws/aws-cdk-go/awscdk/v2/awslogs"

// retentionDays covers every value in config.LogRetentionDays.
var retentionDays = map[float64]awslogs.RetentionDays{
	1:   awslogs.RetentionDays_ONE_DAY,
	3:   awslogs.RetentionDays_THREE_DAYS,
	5:   awslogs.RetentionDays_FIVE_DAYS,
	7:   awslogs.RetentionDays_ONE_WEEK,
	14:  awslogs.RetentionDays_TWO_WEEKS,
	30:  awslogs.RetentionDays_ONE_MONTH,
	60:  awslogs.RetentionDays_TWO_MONTHS,
	90:  awslogs.RetentionDays_THREE_MONTHS,
	120: awslogs.RetentionDays_FOUR_MONTHS,
	150: awslogs.RetentionDays_FIVE_MONTHS,
	180: awslogs.RetentionDays_SIX_MONTHS,
	365: awslogs.RetentionDays_ONE_YEAR,
}

// LogRetention maps a validated day count to its CloudWatch retention. The
// second result is false for days that config.Validate rejects.
func LogRetention(days float64) (awslogs.RetentionDays, bool) {
	r, ok := retentionDays[days]
	return r, ok
}
