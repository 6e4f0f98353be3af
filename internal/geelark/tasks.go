package geelark

import (
	"context"
	"fmt"
	"time"
)

// Task status values reported by the provider.
const (
	TaskStatusWaiting   = 1
	TaskStatusRunning   = 2
	TaskStatusCompleted = 3
	TaskStatusFailed    = 4
	TaskStatusCancelled = 7
)

// PublishVideoParams describes one scheduled TikTok publish task.
type PublishVideoParams struct {
	EnvID      string    // cloud phone id
	Video      string    // public video URL
	ScheduleAt time.Time // when the device should post
	VideoDesc  string    // TikTok caption
	PlanName   string
}

type publishVideoRequest struct {
	EnvID      string `json:"envId"`
	Video      string `json:"video"`
	ScheduleAt int64  `json:"scheduleAt"`
	VideoDesc  string `json:"videoDesc"`
	PlanName   string `json:"planName"`
}

type publishVideoResult struct {
	TaskIDs []string `json:"taskIds"`
}

// CreatePublishVideoTask schedules a publish-video task on the device and
// returns the provider task id.
func (c *Client) CreatePublishVideoTask(ctx context.Context, p PublishVideoParams) (string, error) {
	req := publishVideoRequest{
		EnvID:      p.EnvID,
		Video:      p.Video,
		ScheduleAt: p.ScheduleAt.Unix(),
		VideoDesc:  p.VideoDesc,
		PlanName:   p.PlanName,
	}
	var out publishVideoResult
	if err := c.do(ctx, "/open/v1/task/publishVideo", req, &out); err != nil {
		return "", err
	}
	if len(out.TaskIDs) == 0 {
		return "", fmt.Errorf("geelark publish task: empty task id list")
	}
	return out.TaskIDs[0], nil
}

// TaskInfo is the provider's view of a scheduled task.
type TaskInfo struct {
	ID         string `json:"id"`
	Status     int    `json:"status"`
	FailReason string `json:"failDesc"`
	ShareURL   string `json:"shareUrl"`
}

type queryTasksResult struct {
	Items []TaskInfo `json:"items"`
}

// QueryTasks fetches current status for the given task ids.
func (c *Client) QueryTasks(ctx context.Context, ids []string) ([]TaskInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out queryTasksResult
	if err := c.do(ctx, "/open/v1/task/query", map[string][]string{"ids": ids}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
