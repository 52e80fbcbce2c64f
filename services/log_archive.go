package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogArchiveService flushes Redis-buffered activity logs into the database
// and ships old rows to S3 as zip archives.
type LogArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
}

// ArchivedLog is the row shape written into archive files.
type ArchivedLog struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Username   string         `json:"username,omitempty"`
	UserRole   string         `json:"user_role,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}

func NewLogArchiveService() *LogArchiveService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; archive uploads disabled until configured")
	}

	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
	}
}

// FlushCachedLogsToDatabase drains expired entries from the Redis log queue
// into activity_logs.
func (las *LogArchiveService) FlushCachedLogsToDatabase() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	keys, err := las.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read log queue: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	var flushed, failed int
	for _, key := range keys {
		raw, err := las.redisClient.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).WithField("key", key).Error("Failed to read cached log")
				failed++
				continue
			}
			// Entry expired from cache; drop the queue reference.
			las.redisClient.ZRem(ctx, "logs:queue", key)
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to decode cached log")
			failed++
			continue
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist cached log")
			failed++
			continue
		}

		pipe := las.redisClient.Pipeline()
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, "logs:queue", key)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to clean up flushed log")
		}
		flushed++
	}

	logrus.WithFields(logrus.Fields{
		"flushed": flushed,
		"failed":  failed,
	}).Info("Flushed cached activity logs")
	return nil
}

// ArchiveOldLogs exports logs older than daysOld into a zip on S3 and removes
// them from the database. Minimum age is 7 days.
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days")
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)

	const batchSize = 1000
	var archived []ArchivedLog
	for offset := 0; ; offset += batchSize {
		var logs []models.ActivityLog
		err := database.DB.
			Preload("User").
			Where("created_at < ?", cutoff).
			Order("created_at ASC").
			Limit(batchSize).
			Offset(offset).
			Find(&logs).Error
		if err != nil {
			return fmt.Errorf("failed to fetch logs for archiving: %w", err)
		}
		if len(logs) == 0 {
			break
		}

		for _, entry := range logs {
			row := ArchivedLog{
				ID:         entry.ID,
				UserID:     entry.UserID,
				Action:     entry.Action,
				Resource:   entry.Resource,
				ResourceID: entry.ResourceID,
				IPAddress:  entry.IPAddress,
				UserAgent:  entry.UserAgent,
				CreatedAt:  entry.CreatedAt,
			}
			if len(entry.Details) > 0 {
				var details map[string]any
				if err := json.Unmarshal(entry.Details, &details); err == nil {
					row.Details = details
				}
			}
			if entry.User.ID > 0 {
				row.Username = entry.User.Username
				row.UserRole = entry.User.Role
			}
			archived = append(archived, row)
		}
	}

	if len(archived) == 0 {
		logrus.Info("No activity logs old enough to archive")
		return nil
	}

	fileName := fmt.Sprintf("activity_logs_%s.zip", cutoff.Format("2006-01-02"))
	buf, err := buildLogArchiveZip(archived, fileName)
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}

	s3Key := fmt.Sprintf("logs/archived/%d/%02d/%s", cutoff.Year(), cutoff.Month(), fileName)
	if err := las.uploadToS3(s3Key, buf); err != nil {
		recordFailedArchive(fileName, s3Key, cutoff, len(archived), err)
		return fmt.Errorf("failed to upload archive to S3: %w", err)
	}

	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete archived logs: %w", result.Error)
	}

	metadata := models.LogArchive{
		FileName:    fileName,
		S3Key:       s3Key,
		StartDate:   archived[0].CreatedAt,
		EndDate:     archived[len(archived)-1].CreatedAt,
		RecordCount: len(archived),
		FileSize:    int64(buf.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&metadata).Error; err != nil {
		logrus.WithError(err).Error("Failed to save archive metadata")
	}

	logrus.WithFields(logrus.Fields{
		"s3_key":  s3Key,
		"records": len(archived),
		"deleted": result.RowsAffected,
	}).Info("Archived old activity logs")
	return nil
}

func recordFailedArchive(fileName, s3Key string, cutoff time.Time, count int, cause error) {
	metadata := models.LogArchive{
		FileName:    fileName,
		S3Key:       s3Key,
		StartDate:   cutoff,
		EndDate:     cutoff,
		RecordCount: count,
		Status:      "failed",
		Error:       cause.Error(),
	}
	if err := database.DB.Create(&metadata).Error; err != nil {
		logrus.WithError(err).Error("Failed to record failed archive")
	}
}

// buildLogArchiveZip packages the rows as indented JSON plus a metadata file.
func buildLogArchiveZip(logs []ArchivedLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	logsFile, err := zw.Create("activity_logs.json")
	if err != nil {
		return nil, err
	}
	encoder := json.NewEncoder(logsFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]any{
		"export_date":    time.Now().UTC(),
		"record_count":   len(logs),
		"format_version": "1.0",
		"logs":           logs,
	}); err != nil {
		return nil, err
	}

	metaFile, err := zw.Create("metadata.json")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(metaFile).Encode(map[string]any{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(logs),
		"date_range": map[string]any{
			"start": logs[0].CreatedAt,
			"end":   logs[len(logs)-1].CreatedAt,
		},
		"description": "ClassTrack activity log archive",
	}); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (las *LogArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	if las.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(las.awsConfig)
	bucket := config.AppConfig.S3BucketName

	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	return err
}

func (las *LogArchiveService) downloadFromS3(key string) (io.ReadCloser, error) {
	if las.awsConfig.Region == "" {
		return nil, fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(las.awsConfig)
	bucket := config.AppConfig.S3BucketName

	result, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// GetArchivedLogs lists archive metadata, newest first.
func (las *LogArchiveService) GetArchivedLogs() ([]models.LogArchive, error) {
	var archives []models.LogArchive
	if err := database.DB.Order("created_at DESC").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return archives, nil
}

// DownloadArchivedLogs streams a stored archive back from S3.
func (las *LogArchiveService) DownloadArchivedLogs(archiveID uint) (io.ReadCloser, string, error) {
	var archive models.LogArchive
	if err := database.DB.First(&archive, archiveID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", fmt.Errorf("archive not found")
		}
		return nil, "", fmt.Errorf("failed to load archive: %w", err)
	}

	reader, err := las.downloadFromS3(archive.S3Key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download archive: %w", err)
	}
	return reader, archive.FileName, nil
}

// StartLogMaintenanceScheduler flushes cached logs hourly and archives old
// rows nightly at 03:00.
func (las *LogArchiveService) StartLogMaintenanceScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		if err := las.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("Scheduled log flush failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule log flush")
	}

	if _, err := c.AddFunc("0 3 * * *", func() {
		if err := las.ArchiveOldLogs(config.AppConfig.LogArchiveDays); err != nil {
			logrus.WithError(err).Warn("Scheduled log archive failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule log archive")
	}

	c.Start()

	go func() {
		if err := las.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("Initial log flush failed")
		}
	}()

	return c
}
