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

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/fnndsc/pman/internal/api"
	"github.com/fnndsc/pman/pkg/cluster"
	pmanconfig "github.com/fnndsc/pman/pkg/config"
)

var setupLog = ctrl.Log.WithName("setup")

func main() {
	// Setup CLI args
	var listenAddr string
	flag.StringVar(&listenAddr, "listen-addr", ":5010", "The address the job API binds to.")
	opts := zap.Options{}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	ctx := ctrl.SetupSignalHandler()

	cfg, err := pmanconfig.FromEnv()
	if err != nil {
		setupLog.Error(err, "invalid configuration")
		os.Exit(1)
	}
	setupLog.Info("loaded config",
		"namespace", cfg.Namespace, "storageMode", cfg.StorageMode, "storeBase", cfg.StoreBase)

	clientset := kubernetes.NewForConfigOrDie(config.GetConfigOrDie())
	manager := cluster.NewClusterJobManager(cfg, cluster.NewKubeClient(clientset, cfg.Namespace))

	engine := api.New(manager, ctrl.Log.WithName("api"))
	server := &http.Server{
		Addr:    listenAddr,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			setupLog.Error(err, "unable to shut down the job API server")
		}
	}()

	setupLog.Info("starting the job API server", "addr", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		setupLog.Error(err, "job API server terminated")
		os.Exit(1)
	}
}
