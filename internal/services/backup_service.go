package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/cache"
	"rentacloud-backend/internal/config"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const backupVersion = "1.0"

// BackupService exports the ledger to a JSON snapshot, restores snapshots,
// and keeps copies in S3-compatible object storage.
type BackupService struct {
	cfg          *config.Config
	ProductRepo  *repositories.ProductRepository
	CustomerRepo *repositories.CustomerRepository
	RentalRepo   *repositories.RentalRepository
	BackupRepo   *repositories.BackupRepository
}

func NewBackupService(
	cfg *config.Config,
	productRepo *repositories.ProductRepository,
	customerRepo *repositories.CustomerRepository,
	rentalRepo *repositories.RentalRepository,
	backupRepo *repositories.BackupRepository,
) *BackupService {
	return &BackupService{
		cfg:          cfg,
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
		RentalRepo:   rentalRepo,
		BackupRepo:   backupRepo,
	}
}

// Export builds a full snapshot of products, customers and rentals.
func (s *BackupService) Export(ctx context.Context) (*models.BackupSnapshot, error) {
	products, err := s.ProductRepo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}
	customers, err := s.CustomerRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	rentals, err := s.RentalRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &models.BackupSnapshot{
		Version:   backupVersion,
		Timestamp: timeutil.Now(),
		Data: models.BackupData{
			Products:  products,
			Customers: customers,
			Rentals:   rentals,
		},
	}, nil
}

// Import restores a snapshot. Rows whose ids already exist are skipped,
// one bad row does not abort the rest, and sequences are resynced so new
// inserts continue past the restored ids.
func (s *BackupService) Import(ctx context.Context, req *models.ImportRequest) (*models.ImportResult, error) {
	if req == nil || req.Data == nil {
		return nil, apperrors.Validation("backup data is required")
	}

	if req.ClearExisting {
		if err := s.BackupRepo.ClearAll(ctx); err != nil {
			return nil, err
		}
		log.Printf("[Backup] existing data cleared before import")
	}

	result := &models.ImportResult{}

	for _, p := range req.Data.Products {
		exists, err := s.BackupRepo.ProductExists(ctx, p.ID)
		if err != nil {
			result.Products.Errors++
			continue
		}
		if exists {
			result.Products.Skipped++
			continue
		}
		if err := s.BackupRepo.InsertProduct(ctx, p); err != nil {
			result.Products.Errors++
			continue
		}
		result.Products.Imported++
	}

	for _, c := range req.Data.Customers {
		exists, err := s.BackupRepo.CustomerExists(ctx, c.ID)
		if err != nil {
			result.Customers.Errors++
			continue
		}
		if exists {
			result.Customers.Skipped++
			continue
		}
		if err := s.BackupRepo.InsertCustomer(ctx, c); err != nil {
			result.Customers.Errors++
			continue
		}
		result.Customers.Imported++
	}

	for _, rental := range req.Data.Rentals {
		exists, err := s.BackupRepo.RentalExists(ctx, rental.ID)
		if err != nil {
			result.Rentals.Errors++
			continue
		}
		if exists {
			result.Rentals.Skipped++
			continue
		}
		if err := s.BackupRepo.InsertRental(ctx, rental); err != nil {
			result.Rentals.Errors++
			continue
		}
		result.Rentals.Imported++
	}

	if err := s.BackupRepo.ResyncSequences(ctx); err != nil {
		log.Printf("[Backup] sequence resync failed: %v", err)
	}

	cache.InvalidateLedger(ctx)
	log.Printf("[Backup] import done: products=%+v customers=%+v rentals=%+v",
		result.Products, result.Customers, result.Rentals)
	return result, nil
}

// UploadToRemote exports a snapshot and stores it in the configured bucket.
func (s *BackupService) UploadToRemote(ctx context.Context) (string, error) {
	client, err := s.s3Client(ctx)
	if err != nil {
		return "", err
	}

	snapshot, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("backups/rentacloud-%s.json", snapshot.Timestamp.Format("2006-01-02T15-04-05"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Backup.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", apperrors.Storage(err)
	}

	log.Printf("[Backup] snapshot uploaded: %s (%d bytes)", key, len(body))
	return key, nil
}

// ListRemote lists snapshots in the bucket, newest first.
func (s *BackupService) ListRemote(ctx context.Context) ([]*models.RemoteBackup, error) {
	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Backup.Bucket),
		Prefix: aws.String("backups/"),
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	backups := make([]*models.RemoteBackup, 0, len(result.Contents))
	for _, obj := range result.Contents {
		backups = append(backups, &models.RemoteBackup{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].LastModified.After(backups[j].LastModified)
	})
	return backups, nil
}

func (s *BackupService) s3Client(ctx context.Context) (*s3.Client, error) {
	if s.cfg.Backup.Bucket == "" || s.cfg.Backup.AccessKey == "" {
		return nil, apperrors.InvalidState("remote backup is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Backup.AccessKey,
			s.cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Backup.Region),
	)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Backup.Endpoint)
		}
	})
	return client, nil
}
