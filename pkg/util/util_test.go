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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("PMAN_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("PMAN_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PMAN_TEST_KEY_UNSET", "fallback"))
}

func TestAddrHelpers(t *testing.T) {
	i32 := Int32Addr(4)
	assert.Equal(t, int32(4), *i32)

	i64 := Int64Addr(3600)
	assert.Equal(t, int64(3600), *i64)
}
