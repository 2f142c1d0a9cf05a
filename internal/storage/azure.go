package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/google/uuid"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
	model "github.com/jacqinthebox/todolist/internal/models"
)

// All tasks share one partition. The dataset is single-tenant and small;
// this caps list scans at the partition level, a known limitation.
const azurePartitionKey = "todos"

// AzureOptions configures the Azure Table backend. Either ConnectionString
// or (UseWorkloadIdentity plus AccountURL or AccountName) must be set.
type AzureOptions struct {
	TableName           string
	ConnectionString    string
	AccountName         string
	AccountURL          string
	UseWorkloadIdentity bool
}

// AzureTableStore persists tasks as entities of a cloud-hosted table:
// partition key "todos", row key = task id, remaining fields as entity
// properties. Concurrent updates to the same id race at the table's
// last-write-wins granularity; no optimistic concurrency tokens are used.
type AzureTableStore struct {
	client *aztables.Client
}

var _ Store = (*AzureTableStore)(nil)

// NewAzureTableStore builds the table client and attempts to create the
// table, tolerating "already exists".
func NewAzureTableStore(ctx context.Context, opts AzureOptions) (*AzureTableStore, error) {
	svc, err := newAzureServiceClient(opts)
	if err != nil {
		return nil, err
	}

	if _, err := svc.CreateTable(ctx, opts.TableName, nil); err != nil {
		var respErr *azcore.ResponseError
		if !errors.As(err, &respErr) || respErr.StatusCode != http.StatusConflict {
			return nil, fmt.Errorf("%w: create table %s: %v", apperrors.ErrBackendUnavailable, opts.TableName, err)
		}
	}

	return &AzureTableStore{client: svc.NewClient(opts.TableName)}, nil
}

func newAzureServiceClient(opts AzureOptions) (*aztables.ServiceClient, error) {
	if opts.UseWorkloadIdentity {
		endpoint := opts.AccountURL
		if endpoint == "" {
			if opts.AccountName == "" {
				return nil, apperrors.Wrap(apperrors.ErrMissingSetting,
					"azure backend with workload identity needs AZURE_STORAGE_ACCOUNT_URL or AZURE_STORAGE_ACCOUNT_NAME")
			}
			endpoint = fmt.Sprintf("https://%s.table.core.windows.net", opts.AccountName)
		}

		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: workload identity credential: %v", apperrors.ErrBackendUnavailable, err)
		}
		svc, err := aztables.NewServiceClient(endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: service client: %v", apperrors.ErrBackendUnavailable, err)
		}
		return svc, nil
	}

	if opts.ConnectionString == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingSetting,
			"azure backend needs AZURE_STORAGE_CONNECTION_STRING when not using workload identity")
	}
	svc, err := aztables.NewServiceClientFromConnectionString(opts.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: service client: %v", apperrors.ErrBackendUnavailable, err)
	}
	return svc, nil
}

func (s *AzureTableStore) Create(ctx context.Context, title string) (*model.Task, error) {
	if err := model.ValidateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	payload, err := json.Marshal(taskToEntity(task))
	if err != nil {
		return nil, fmt.Errorf("marshaling entity: %w", err)
	}

	// Insert, not upsert: a row key collision means id generation broke.
	if _, err := s.client.AddEntity(ctx, payload, nil); err != nil {
		return nil, fmt.Errorf("%w: add entity: %v", apperrors.ErrBackendUnavailable, err)
	}

	return task, nil
}

func (s *AzureTableStore) Get(ctx context.Context, id string) (*model.Task, error) {
	resp, err := s.client.GetEntity(ctx, azurePartitionKey, id, nil)
	if err != nil {
		return nil, s.translate(err, id, "get entity")
	}

	var entity aztables.EDMEntity
	if err := json.Unmarshal(resp.Value, &entity); err != nil {
		return nil, fmt.Errorf("decoding entity: %w", err)
	}
	return entityToTask(&entity)
}

func (s *AzureTableStore) List(ctx context.Context) ([]model.Task, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", azurePartitionKey)
	pager := s.client.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})

	var tasks []model.Task
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list entities: %v", apperrors.ErrBackendUnavailable, err)
		}
		for _, raw := range page.Entities {
			var entity aztables.EDMEntity
			if err := json.Unmarshal(raw, &entity); err != nil {
				return nil, fmt.Errorf("decoding entity: %w", err)
			}
			task, err := entityToTask(&entity)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (s *AzureTableStore) Update(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if err := model.ValidateTitle(*upd.Title); err != nil {
			return nil, err
		}
		task.Title = *upd.Title
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	return task, s.merge(ctx, task)
}

func (s *AzureTableStore) Toggle(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	return task, s.merge(ctx, task)
}

func (s *AzureTableStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.DeleteEntity(ctx, azurePartitionKey, id, nil); err != nil {
		return s.translate(err, id, "delete entity")
	}
	return nil
}

// merge writes title, completed and a fresh updated_at with a merge
// update, leaving created_at untouched on the stored entity.
func (s *AzureTableStore) merge(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: azurePartitionKey,
			RowKey:       task.ID,
		},
		Properties: map[string]any{
			"title":      task.Title,
			"completed":  task.Completed,
			"updated_at": task.UpdatedAt.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return fmt.Errorf("marshaling entity: %w", err)
	}

	_, err = s.client.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{
		UpdateMode: aztables.UpdateModeMerge,
	})
	if err != nil {
		return s.translate(err, task.ID, "update entity")
	}
	return nil
}

// translate maps the SDK's 404 response to the shared not-found error so
// no Azure error type leaks across the storage boundary.
func (s *AzureTableStore) translate(err error, id, op string) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
		return apperrors.Wrap(apperrors.ErrTaskNotFound, id)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrBackendUnavailable, op, err)
}

func taskToEntity(task *model.Task) aztables.EDMEntity {
	return aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: azurePartitionKey,
			RowKey:       task.ID,
		},
		Properties: map[string]any{
			"title":      task.Title,
			"completed":  task.Completed,
			"created_at": task.CreatedAt.Format(time.RFC3339Nano),
			"updated_at": task.UpdatedAt.Format(time.RFC3339Nano),
		},
	}
}

func entityToTask(entity *aztables.EDMEntity) (*model.Task, error) {
	task := &model.Task{ID: entity.RowKey}

	if v, ok := entity.Properties["title"].(string); ok {
		task.Title = v
	}
	if v, ok := entity.Properties["completed"].(bool); ok {
		task.Completed = v
	}

	var err error
	if v, ok := entity.Properties["created_at"].(string); ok {
		if task.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("entity %s: bad created_at %q: %w", entity.RowKey, v, err)
		}
	}
	if v, ok := entity.Properties["updated_at"].(string); ok {
		if task.UpdatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("entity %s: bad updated_at %q: %w", entity.RowKey, v, err)
		}
	}

	return task, nil
}
