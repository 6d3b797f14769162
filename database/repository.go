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

	"github.com/chihoangvnn/regiond/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	socialAccount // Interface for social account operations
}

// socialAccount defines methods for handling social accounts and their region metadata.
type socialAccount interface {
	CreateSocialAccount(ctx context.Context, account model.SocialAccount) (model.SocialAccount, error) // Creates a new social account
	GetSocialAccount(ctx context.Context, id string) (*model.SocialAccount, error)                     // Retrieves a social account by ID
	GetAllSocialAccounts(ctx context.Context, platform string, limit, offset int) ([]model.SocialAccount, error)
	UpdateSocialAccountMetadata(ctx context.Context, id string, metadata map[string]interface{}) error // Replaces the metadata of a social account
}
