// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

/*
Package main is the entry point for the PlatePicker web server.

PlatePicker turns a free-text food request ("bún bò gần đây dưới 50k") into a
short list of nearby restaurants. An LLM parses the request, a chromem-go
vector store retrieves candidates, and a heuristic, collaborative filtering
and a LinUCB bandit rank them. Clicks and likes are logged to MongoDB and
fed back to the bandit and the CF retrainer over the event bus.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("platepicker")
	├── DataSupervisor ("data-layer")
	│   └── Retrain service (optional, CF_RETRAIN_INTERVAL or CF_TRAIN_ON_STARTUP)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event router (bandit feedback, retrain check)
	└── APISupervisor ("api-layer")
	    └── HTTP server (pages, JSON API, health, metrics)

# Configuration

Configuration is loaded via Koanf v2 (highest priority wins):

	Priority: Environment variables > .env > config.yaml > Defaults

Core environment variables:

	OPENAI_API_KEY=<key>              # required
	MONGODB_URI=mongodb://localhost:27017
	MONGODB_DB=restaurant_recommendation
	VECTORSTORE_PATH=chroma/foody
	HTTP_PORT=8000
	JWT_SECRET=<32+ chars>            # required in production
	ADMIN_USERNAMES=alice,bob
	EVENTS_BACKEND=memory             # memory or nats
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for SHUTDOWN_TIMEOUT, the event router closes its subscriptions,
and a running CF training job is awaited before the model store closes.

The same server is available as "platectl serve".
*/
package main
