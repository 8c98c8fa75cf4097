// Package redisqueue stores report jobs and their rendered artifacts in Redis.
//
// Layout under the key prefix:
//
//	<prefix>:pending      list of job IDs ready to run (LPUSH / BRPOP)
//	<prefix>:delayed      sorted set of job IDs scored by RunAt in unix ms
//	<prefix>:job:<id>     job record as JSON
//	<prefix>:result:<id>  rendered artifact as JSON, expiring after ResultTTL
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/redis/go-redis/v9"
)

// ErrNoJob means nothing became claimable before the claim timeout.
var ErrNoJob = errors.New("no job available")

const (
	DefaultPrefix    = "courseadmin:reports"
	DefaultResultTTL = time.Hour
	// job records outlive their results so a status poll can still say "succeeded"
	jobRecordTTL = 24 * time.Hour
)

type Config struct {
	Prefix    string
	ResultTTL time.Duration
}

type Queue struct {
	rdb       redis.UniversalClient
	prefix    string
	resultTTL time.Duration
	now       func() time.Time
}

func New(rdb redis.UniversalClient, cfg Config) *Queue {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = DefaultResultTTL
	}

	return &Queue{
		rdb:       rdb,
		prefix:    cfg.Prefix,
		resultTTL: cfg.ResultTTL,
		now:       time.Now,
	}
}

func (q *Queue) pendingKey() string         { return q.prefix + ":pending" }
func (q *Queue) delayedKey() string         { return q.prefix + ":delayed" }
func (q *Queue) jobKey(id string) string    { return q.prefix + ":job:" + id }
func (q *Queue) resultKey(id string) string { return q.prefix + ":result:" + id }

func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// Enqueue stores the job and makes it claimable at RunAt.
func (q *Queue) Enqueue(ctx context.Context, j jobs.Job) error {
	if !j.Type.IsValid() {
		return jobs.ErrInvalidJobType
	}

	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.jobKey(j.ID), raw, jobRecordTTL)
		q.schedule(ctx, pipe, j)
		return nil
	})
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", j.ID, err)
	}
	return nil
}

func (q *Queue) schedule(ctx context.Context, pipe redis.Pipeliner, j jobs.Job) {
	if j.RunAt.After(q.now()) {
		pipe.ZAdd(ctx, q.delayedKey(), redis.Z{
			Score:  float64(j.RunAt.UnixMilli()),
			Member: j.ID,
		})
		return
	}
	pipe.LPush(ctx, q.pendingKey(), j.ID)
}

// Claim blocks up to timeout for the next runnable job and marks it processing.
func (q *Queue) Claim(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	if err := q.promoteDue(ctx); err != nil {
		return jobs.Job{}, err
	}

	res, err := q.rdb.BRPop(ctx, timeout, q.pendingKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, ErrNoJob
		}
		return jobs.Job{}, fmt.Errorf("claim: %w", err)
	}

	// BRPOP answers [key, value]
	id := res[1]

	j, err := q.Get(ctx, id)
	if err != nil {
		return jobs.Job{}, err
	}

	j.Status = jobs.JobProcessing
	j.Attempts++
	j.UpdatedAt = q.now().UTC()

	if err := q.save(ctx, q.rdb, j); err != nil {
		return jobs.Job{}, err
	}
	return j, nil
}

// promoteDue moves delayed jobs whose RunAt has passed onto the pending list.
// ZREM decides ownership so two workers never promote the same ID.
func (q *Queue) promoteDue(ctx context.Context) error {
	upTo := strconv.FormatInt(q.now().UnixMilli(), 10)

	ids, err := q.rdb.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{Min: "-inf", Max: upTo}).Result()
	if err != nil {
		return fmt.Errorf("scan delayed jobs: %w", err)
	}

	for _, id := range ids {
		removed, err := q.rdb.ZRem(ctx, q.delayedKey(), id).Result()
		if err != nil {
			return fmt.Errorf("promote job %s: %w", id, err)
		}
		if removed == 0 {
			continue
		}
		if err := q.rdb.LPush(ctx, q.pendingKey(), id).Err(); err != nil {
			return fmt.Errorf("promote job %s: %w", id, err)
		}
	}
	return nil
}

// Complete stores the artifact and marks the job succeeded.
func (q *Queue) Complete(ctx context.Context, j jobs.Job, a report.Artifact) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	j.Status = jobs.JobSucceeded
	j.LastError = nil
	j.UpdatedAt = q.now().UTC()

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.resultKey(j.ID), raw, q.resultTTL)
		return q.save(ctx, pipe, j)
	})
	if err != nil {
		return fmt.Errorf("complete job %s: %w", j.ID, err)
	}
	return nil
}

// Fail records the error. When attempts remain the job is rescheduled at
// retryAt, otherwise it becomes terminally failed. It returns the stored job.
func (q *Queue) Fail(ctx context.Context, j jobs.Job, cause error, retryAt time.Time) (jobs.Job, error) {
	msg := cause.Error()
	j.LastError = &msg
	j.UpdatedAt = q.now().UTC()

	if j.CanRetry() {
		j.Status = jobs.JobPending
		j.RunAt = retryAt.UTC()
	} else {
		j.Status = jobs.JobFailed
	}

	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := q.save(ctx, pipe, j); err != nil {
			return err
		}
		if j.Status == jobs.JobPending {
			q.schedule(ctx, pipe, j)
		}
		return nil
	})
	if err != nil {
		return j, fmt.Errorf("fail job %s: %w", j.ID, err)
	}
	return j, nil
}

func (q *Queue) Get(ctx context.Context, id string) (jobs.Job, error) {
	raw, err := q.rdb.Get(ctx, q.jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, id)
		}
		return jobs.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}

	var j jobs.Job
	if err := json.Unmarshal(raw, &j); err != nil {
		return jobs.Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return j, nil
}

// Result returns the rendered artifact of a succeeded job.
func (q *Queue) Result(ctx context.Context, id string) (report.Artifact, error) {
	raw, err := q.rdb.Get(ctx, q.resultKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return report.Artifact{}, fmt.Errorf("get result %s: %w", id, err)
		}
		j, getErr := q.Get(ctx, id)
		if getErr != nil {
			return report.Artifact{}, getErr
		}
		if j.Status == jobs.JobSucceeded {
			// result expired before the job record did
			return report.Artifact{}, fmt.Errorf("%w: result of %s expired", jobs.ErrJobNotFound, id)
		}
		return report.Artifact{}, fmt.Errorf("%w: %s is %s", jobs.ErrResultNotReady, id, j.Status)
	}

	var a report.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return report.Artifact{}, fmt.Errorf("decode result %s: %w", id, err)
	}
	return a, nil
}

func (q *Queue) save(ctx context.Context, c redis.Cmdable, j jobs.Job) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := c.Set(ctx, q.jobKey(j.ID), raw, jobRecordTTL).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", j.ID, err)
	}
	return nil
}
