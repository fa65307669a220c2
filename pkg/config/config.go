/*
 * Copyright 2023 FNNDSC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"

	"github.com/fnndsc/pman/pkg/constant"
	"github.com/fnndsc/pman/pkg/util"
)

// StorageMode selects how job data is staged in and out of the cluster.
type StorageMode string

const (
	// StorageModeSharedFilesystem mounts a host directory shared between the
	// job workers and the caller.
	StorageModeSharedFilesystem StorageMode = "shared-filesystem"
	// StorageModeObjectStorage stages data through object storage using
	// init/publish helper containers.
	StorageModeObjectStorage StorageMode = "object-storage"
)

const (
	defaultNamespace = "myproject"
	defaultStoreBase = "/tmp/share"
)

// Config carries the process-wide settings consumed by the job manager. It is
// built once at startup and passed explicitly, never read from the
// environment at call sites.
type Config struct {
	// Namespace is the cluster namespace jobs and pods are managed in.
	Namespace string
	// StorageMode selects the data-staging topology for every scheduled job.
	StorageMode StorageMode
	// StoreBase is the host directory backing shared-filesystem volumes.
	StoreBase string
}

// FromEnv builds a Config from the process environment, applying defaults
// for unset variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Namespace:   util.GetEnv(constant.EnvVarJobNamespace, defaultNamespace),
		StorageMode: StorageMode(util.GetEnv(constant.EnvVarStorageType, string(StorageModeSharedFilesystem))),
		StoreBase:   util.GetEnv(constant.EnvVarStoreBase, defaultStoreBase),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageMode {
	case StorageModeSharedFilesystem, StorageModeObjectStorage:
	default:
		return fmt.Errorf("unsupported storage mode %q", c.StorageMode)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if c.StorageMode == StorageModeSharedFilesystem && c.StoreBase == "" {
		return fmt.Errorf("store base must not be empty in %s mode", StorageModeSharedFilesystem)
	}
	return nil
}
