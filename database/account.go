/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/chihoangvnn/regiond/internal/apierror"
	"github.com/chihoangvnn/regiond/model"
)

// CreateSocialAccount inserts a new social account into the database.
// The account is assigned a generated ID and creation timestamp; metadata
// is serialized to JSONB.
func (d *Datasource) CreateSocialAccount(ctx context.Context, account model.SocialAccount) (model.SocialAccount, error) {
	metaDataJSON, err := json.Marshal(account.MetaData)
	if err != nil {
		return model.SocialAccount{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	account.AccountID = model.GenerateUUIDWithSuffix("acct")
	account.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO regiond.social_accounts (account_id, name, platform, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5)
	`, account.AccountID, account.Name, account.Platform, account.CreatedAt, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.SocialAccount{}, apierror.NewAPIError(apierror.ErrConflict, "Social account with this ID already exists", err)
			default:
				return model.SocialAccount{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.SocialAccount{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create social account", err)
	}

	return account, nil
}

// GetSocialAccount retrieves a social account by its ID.
func (d *Datasource) GetSocialAccount(ctx context.Context, id string) (*model.SocialAccount, error) {
	account := model.SocialAccount{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT account_id, name, platform, created_at, meta_data
		FROM regiond.social_accounts
		WHERE account_id = $1
	`, id)

	var metaDataJSON []byte
	err := row.Scan(&account.AccountID, &account.Name, &account.Platform, &account.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Social account not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve social account", err)
	}

	err = json.Unmarshal(metaDataJSON, &account.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
	}

	return &account, nil
}

// GetAllSocialAccounts retrieves social accounts ordered by creation time,
// optionally filtered by platform. An empty platform matches all platforms.
func (d *Datasource) GetAllSocialAccounts(ctx context.Context, platform string, limit, offset int) ([]model.SocialAccount, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var rows *sql.Rows
	var err error
	if platform != "" {
		rows, err = d.Conn.QueryContext(ctx, `
			SELECT account_id, name, platform, created_at, meta_data
			FROM regiond.social_accounts
			WHERE platform = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, platform, limit, offset)
	} else {
		rows, err = d.Conn.QueryContext(ctx, `
			SELECT account_id, name, platform, created_at, meta_data
			FROM regiond.social_accounts
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve social accounts", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []model.SocialAccount{}

	for rows.Next() {
		account := model.SocialAccount{}
		var metaDataJSON []byte
		err = rows.Scan(&account.AccountID, &account.Name, &account.Platform, &account.CreatedAt, &metaDataJSON)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan social account data", err)
		}

		err = json.Unmarshal(metaDataJSON, &account.MetaData)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}

		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over social accounts", err)
	}

	return accounts, nil
}

// UpdateSocialAccountMetadata replaces the metadata of a social account.
// The caller passes the full metadata map, so removed keys are dropped
// from storage as well.
func (d *Datasource) UpdateSocialAccountMetadata(ctx context.Context, id string, metadata map[string]interface{}) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE regiond.social_accounts
		SET meta_data = $1
		WHERE account_id = $2
	`, metadataJSON, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update metadata", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read update result", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Social account not found", nil)
	}

	return nil
}
