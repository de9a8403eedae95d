// Package platform provides host-side building blocks: a scene-loaded event
// service and Headless, an in-memory host for servers, tools and tests.
package platform
