//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	appdist "sf-content-upload/application/distribution"
	"sf-content-upload/cmd"
	"sf-content-upload/domain/content"
	"sf-content-upload/infrastructure/filesystem"
	"sf-content-upload/infrastructure/salesforce"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/cucumber/godog"
)

type transferContext struct {
	platform  *fakePlatform
	tempDir   string
	localFile string
	fileBytes []byte
	output    bytes.Buffer
	err       error
}

var SharedTransferContext = &transferContext{}

func InitializeTransferScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedTransferContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "transfer-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.platform = newFakePlatform()
		testCtx.localFile = ""
		testCtx.fileBytes = nil
		testCtx.output.Reset()
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.platform != nil {
			testCtx.platform.Close()
		}
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedTransferContext = &transferContext{}
		return c, nil
	})

	ctx.Step(`^the platform issues access token "([^"]*)"$`, testCtx.thePlatformIssuesAccessToken)
	ctx.Step(`^the token endpoint responds with status (\d+) and body:$`, testCtx.theTokenEndpointRespondsWith)
	ctx.Step(`^the ContentVersion endpoint responds with status (\d+) and body:$`, testCtx.theContentVersionEndpointRespondsWith)
	ctx.Step(`^the platform is unreachable$`, testCtx.thePlatformIsUnreachable)
	ctx.Step(`^a local file "([^"]*)" containing "([^"]*)"$`, testCtx.aLocalFileContaining)

	ctx.Step(`^I request an access token$`, testCtx.iRequestAnAccessToken)
	ctx.Step(`^I upload small file "([^"]*)" named "([^"]*)" with data "([^"]*)"$`, testCtx.iUploadSmallFile)
	ctx.Step(`^I upload large file "([^"]*)" named "([^"]*)" with description "([^"]*)"$`, testCtx.iUploadLargeFileNamed)
	ctx.Step(`^I upload large file "([^"]*)" without a name$`, testCtx.iUploadLargeFileWithoutName)

	ctx.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	ctx.Step(`^the token request should send password "([^"]*)"$`, testCtx.theTokenRequestShouldSendPassword)
	ctx.Step(`^the upload body should have "([^"]*)" set to "([^"]*)"$`, testCtx.theUploadBodyShouldHave)
	ctx.Step(`^the entity content should have "([^"]*)" set to "([^"]*)"$`, testCtx.theEntityContentShouldHave)
	ctx.Step(`^the entity content title should be the file path without extension$`, testCtx.theEntityContentTitleShouldBeDerived)
	ctx.Step(`^the VersionData part should hold the file bytes$`, testCtx.theVersionDataPartShouldHoldTheFileBytes)
	ctx.Step(`^(\d+) upload requests? should have been sent$`, testCtx.uploadRequestsShouldHaveBeenSent)
	ctx.Step(`^no token request should have been sent$`, testCtx.noTokenRequestShouldHaveBeenSent)
}

func (t *transferContext) thePlatformIssuesAccessToken(token string) error {
	t.platform.tokenStatus = http.StatusOK
	t.platform.tokenBody = fmt.Sprintf(`{"access_token":%q,"instance_url":"https://acme.my.salesforce.com","token_type":"Bearer"}`, token)
	return nil
}

func (t *transferContext) theTokenEndpointRespondsWith(status int, body *godog.DocString) error {
	t.platform.tokenStatus = status
	t.platform.tokenBody = body.Content
	return nil
}

func (t *transferContext) theContentVersionEndpointRespondsWith(status int, body *godog.DocString) error {
	t.platform.uploadStatus = status
	t.platform.uploadBody = body.Content
	return nil
}

func (t *transferContext) thePlatformIsUnreachable() error {
	t.platform.Close()
	return nil
}

func (t *transferContext) aLocalFileContaining(name, data string) error {
	t.localFile = filepath.Join(t.tempDir, name)
	t.fileBytes = []byte(data)
	return os.WriteFile(t.localFile, t.fileBytes, 0644)
}

func (t *transferContext) newService() *appdist.UploadService {
	logger := log.NewLogger()
	return appdist.NewUploadService(
		salesforce.NewAuthenticator(logger, salesforce.WithBaseURL(t.platform.server.URL)),
		salesforce.NewClient(logger),
		filesystem.NewChecker(),
		&t.output,
	)
}

func (t *transferContext) iRequestAnAccessToken() error {
	authenticator := salesforce.NewAuthenticator(log.NewLogger(), salesforce.WithBaseURL(t.platform.server.URL))
	t.err = cmd.RunTokenWithDependencies(context.Background(), authenticator, t.platform.credentials(), &t.output)
	return nil
}

func (t *transferContext) iUploadSmallFile(path, name, data string) error {
	creds := t.platform.credentials()
	req := content.SmallFileRequest{
		URL:      t.platform.URL(creds.APIVersion),
		FilePath: path,
		FileName: name,
		Data:     data,
	}
	t.err = cmd.RunUploadSmallWithDependencies(context.Background(), t.newService(), creds, req)
	return nil
}

func (t *transferContext) iUploadLargeFileNamed(file, name, description string) error {
	return t.uploadLarge(file, name, description)
}

func (t *transferContext) iUploadLargeFileWithoutName(file string) error {
	return t.uploadLarge(file, "", "")
}

func (t *transferContext) uploadLarge(file, name, description string) error {
	creds := t.platform.credentials()
	req := content.LargeFileRequest{
		URL:         t.platform.URL(creds.APIVersion),
		FilePath:    filepath.Join(t.tempDir, file),
		FileName:    name,
		Description: description,
	}
	t.err = cmd.RunUploadLargeWithDependencies(context.Background(), t.newService(), creds, req)
	return nil
}

func (t *transferContext) theCommandShouldSucceed() error {
	if t.err != nil {
		return fmt.Errorf("expected success, got: %w", t.err)
	}
	return nil
}

func (t *transferContext) theCommandShouldFailWith(expected string) error {
	if t.err == nil {
		return fmt.Errorf("expected an error containing %q, got none", expected)
	}
	if !strings.Contains(t.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, t.err)
	}
	return nil
}

func (t *transferContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(t.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, t.output.String())
	}
	return nil
}

func (t *transferContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(t.output.String(), unexpected) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", unexpected, t.output.String())
	}
	return nil
}

func (t *transferContext) theTokenRequestShouldSendPassword(expected string) error {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	if len(t.platform.tokenForms) == 0 {
		return fmt.Errorf("no token request was received")
	}
	form := t.platform.tokenForms[len(t.platform.tokenForms)-1]
	if form["grant_type"] != "password" {
		return fmt.Errorf("expected grant_type password, got %q", form["grant_type"])
	}
	if form["password"] != expected {
		return fmt.Errorf("expected password %q, got %q", expected, form["password"])
	}
	return nil
}

func (t *transferContext) theUploadBodyShouldHave(key, expected string) error {
	upload, err := t.platform.lastUpload()
	if err != nil {
		return err
	}
	if upload.json[key] != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, upload.json[key])
	}
	return nil
}

func (t *transferContext) entityContent() (map[string]string, error) {
	upload, err := t.platform.lastUpload()
	if err != nil {
		return nil, err
	}
	part, ok := upload.parts["entity_content"]
	if !ok {
		return nil, fmt.Errorf("no entity_content part in %d parts", len(upload.parts))
	}
	if part.contentType != "application/json" {
		return nil, fmt.Errorf("expected entity_content type application/json, got %q", part.contentType)
	}
	var fields map[string]string
	if err := json.Unmarshal(part.data, &fields); err != nil {
		return nil, fmt.Errorf("entity_content is not JSON: %w", err)
	}
	return fields, nil
}

func (t *transferContext) theEntityContentShouldHave(key, expected string) error {
	fields, err := t.entityContent()
	if err != nil {
		return err
	}
	if fields[key] != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, fields[key])
	}
	return nil
}

func (t *transferContext) theEntityContentTitleShouldBeDerived() error {
	fields, err := t.entityContent()
	if err != nil {
		return err
	}
	expected := strings.TrimSuffix(t.localFile, filepath.Ext(t.localFile))
	if fields["Title"] != expected {
		return fmt.Errorf("expected Title %q, got %q", expected, fields["Title"])
	}
	return nil
}

func (t *transferContext) theVersionDataPartShouldHoldTheFileBytes() error {
	upload, err := t.platform.lastUpload()
	if err != nil {
		return err
	}
	part, ok := upload.parts["VersionData"]
	if !ok {
		return fmt.Errorf("no VersionData part in %d parts", len(upload.parts))
	}
	if part.fileName != filepath.Base(t.localFile) {
		return fmt.Errorf("expected filename %q, got %q", filepath.Base(t.localFile), part.fileName)
	}
	if part.contentType != "application/octet-stream" {
		return fmt.Errorf("expected VersionData type application/octet-stream, got %q", part.contentType)
	}
	if !bytes.Equal(part.data, t.fileBytes) {
		return fmt.Errorf("expected %d bytes %q, got %d bytes %q", len(t.fileBytes), t.fileBytes, len(part.data), part.data)
	}
	return nil
}

func (t *transferContext) uploadRequestsShouldHaveBeenSent(expected int) error {
	if got := t.platform.uploadCount(); got != expected {
		return fmt.Errorf("expected %d upload requests, got %d", expected, got)
	}
	return nil
}

func (t *transferContext) noTokenRequestShouldHaveBeenSent() error {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	if n := len(t.platform.tokenForms); n != 0 {
		return fmt.Errorf("expected no token request, got %d", n)
	}
	return nil
}
