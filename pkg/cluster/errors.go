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

package cluster

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	errorCodeValidation          errorCode = "invalid-parameters"
	errorCodeSubmission          errorCode = "submission-rejected"
	errorCodeNotFound            errorCode = "resource-not-found"
	errorCodeLogFetch            errorCode = "log-fetch-failed"
	errorCodeUnsupportedTopology errorCode = "unsupported-topology"
	errorCodeGeneric             errorCode = "generic"
)

var (
	ValidationErr          = errorImpl{code: errorCodeValidation}
	SubmissionErr          = errorImpl{code: errorCodeSubmission}
	NotFoundErr            = errorImpl{code: errorCodeNotFound}
	LogFetchErr            = errorImpl{code: errorCodeLogFetch}
	UnsupportedTopologyErr = errorImpl{code: errorCodeUnsupportedTopology}
	GenericErr             = errorImpl{code: errorCodeGeneric}
)

// Error is the error type returned by every fallible operation of this
// package. No raw transport or apiserver error leaks past it.
type Error interface {
	error
	IsNotFound() bool
}

type errorImpl struct {
	code errorCode
	err  error
}

func (e errorImpl) Error() string {
	return fmt.Sprintf("[code: %s  err: %s]", e.code, e.err.Error())
}

func (e errorImpl) IsNotFound() bool {
	return e.code == errorCodeNotFound
}

func (e errorImpl) Unwrap() error {
	return e.err
}

func (e errorImpl) Errorf(format string, args ...any) Error {
	e.err = fmt.Errorf(format, args...)
	return e
}

func hasCode(err error, code errorCode) bool {
	var impl errorImpl
	if errors.As(err, &impl) {
		return impl.code == code
	}
	return false
}

func IsNotFound(err error) bool {
	return hasCode(err, errorCodeNotFound)
}

func IsValidation(err error) bool {
	return hasCode(err, errorCodeValidation)
}

func IsSubmission(err error) bool {
	return hasCode(err, errorCodeSubmission)
}

func IsLogFetch(err error) bool {
	return hasCode(err, errorCodeLogFetch)
}

func IsUnsupportedTopology(err error) bool {
	return hasCode(err, errorCodeUnsupportedTopology)
}

// IgnoreNotFound maps not-found errors to nil, leaving everything else
// untouched.
func IgnoreNotFound(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return nil
	}
	return err
}
