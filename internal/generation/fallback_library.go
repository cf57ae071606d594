package generation

type template struct {
	title string
	steps []Step
}

type topic struct {
	name      string
	keywords  []string
	templates map[Category]template
}

// topics are matched in order against the lower-cased criteria or title.
var topics = []topic{
	{
		name:     "login",
		keywords: []string{"login", "log in", "sign in", "authenticat"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that a registered user can log in with a valid email and correct password",
				steps: []Step{
					{"Navigate to the login page and locate the email and password fields.", "The login page loads and both fields are visible and enabled."},
					{"Enter a registered email address such as 'john.smith@example.com'.", "The email is accepted and shown in the field without validation errors."},
					{"Enter the correct password and click the 'Login' button.", "The user is authenticated and redirected to the dashboard."},
					{"Check the page header after the redirect.", "The user's name and profile menu are displayed, confirming the session is active."},
				},
			},
			Negative: {
				title: "Verify that login is rejected when the user enters an incorrect password",
				steps: []Step{
					{"Navigate to the login page.", "The login page loads with email and password fields."},
					{"Enter a registered email address and the password 'WrongPass123'.", "Both values are accepted into the fields."},
					{"Click the 'Login' button.", "Login fails and the message 'Invalid email or password' is shown."},
					{"Check the current page and session state.", "The user stays on the login page and no session is created."},
				},
			},
			Boundary: {
				title: "Verify that the password field enforces its minimum and maximum length on login",
				steps: []Step{
					{"Navigate to the login page and enter a registered email address.", "The email is accepted without errors."},
					{"Enter a password one character shorter than the minimum length and click 'Login'.", "A message explains the minimum password length and login does not proceed."},
					{"Enter a password of exactly the minimum length and click 'Login'.", "The password length is accepted and credentials are checked."},
					{"Enter a password longer than the maximum length.", "Input stops at the maximum length or a length error is shown."},
				},
			},
			Edge: {
				title: "Verify that repeated failed login attempts lock the account temporarily",
				steps: []Step{
					{"Navigate to the login page and enter a registered email address.", "The login form is ready for input."},
					{"Submit an incorrect password five times in a row.", "Each attempt shows 'Invalid email or password'."},
					{"Submit the correct password on the next attempt.", "Login is blocked and a message says the account is temporarily locked."},
					{"Wait for the lockout period to end and log in with the correct password.", "The user logs in successfully and reaches the dashboard."},
				},
			},
		},
	},
	{
		name:     "release date",
		keywords: []string{"release date", "schedule"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that an admin can set a future release date for a course module",
				steps: []Step{
					{"Log in as an admin and open 'Course Management'.", "The Course Management page lists the available courses."},
					{"Select a course module and click 'Set Release Date'.", "A date picker opens with selectable dates and times."},
					{"Choose a date one week from today and click 'Save Release Date'.", "The release date is saved and the confirmation 'Release date set' is shown."},
					{"Reopen the module settings.", "The saved release date is displayed in the release date field."},
				},
			},
			Negative: {
				title: "Verify that the system prevents setting a release date in the past",
				steps: []Step{
					{"Log in as an admin and open the module settings page.", "The release date section is visible."},
					{"Open the date picker and select yesterday's date.", "The past date is either disabled or selected with a warning."},
					{"Click 'Save Release Date'.", "Saving is blocked and the message 'Release date cannot be in the past' is shown."},
					{"Reload the module settings.", "The previous release date is unchanged."},
				},
			},
			Boundary: {
				title: "Verify that a module becomes visible exactly at its scheduled release time",
				steps: []Step{
					{"Set a module release date to five minutes from now.", "The release date is saved successfully."},
					{"Log in as a student one minute before the release time and open the course.", "The module is hidden or shows 'Available on [date]'."},
					{"Refresh the course page right after the release time passes.", "The module is now listed and can be opened."},
					{"Open the first lesson of the module.", "The lesson content loads without access errors."},
				},
			},
			Edge: {
				title: "Verify that release dates are shown correctly for users in different timezones",
				steps: []Step{
					{"Set a module release date of 09:00 UTC.", "The release date is saved and shown in the admin's timezone."},
					{"Log in as a student whose profile timezone is UTC+5:30 and open the course.", "The release time is shown as 14:30 local time."},
					{"Log in as a student whose profile timezone is UTC-8 and open the course.", "The release time is shown as 01:00 local time."},
					{"Compare when the module unlocks for both students.", "The module unlocks at the same instant for both students."},
				},
			},
		},
	},
	{
		name:     "upload",
		keywords: []string{"upload"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that the user can upload a supported file and see it in the file list",
				steps: []Step{
					{"Open the upload page and click 'Choose File'.", "The file browser dialog opens."},
					{"Select a 2 MB file named 'report.pdf'.", "The file name and size are shown next to the upload button."},
					{"Click 'Upload'.", "A progress bar runs to 100% and the message 'Upload complete' is shown."},
					{"Open the file list.", "'report.pdf' appears with the correct size and upload date."},
				},
			},
			Negative: {
				title: "Verify that uploading an unsupported file type is rejected with a clear message",
				steps: []Step{
					{"Open the upload page and click 'Choose File'.", "The file browser dialog opens."},
					{"Select an executable file named 'setup.exe'.", "The file is selected in the dialog."},
					{"Click 'Upload'.", "The upload is rejected and the message 'File type not supported' is shown."},
					{"Open the file list.", "'setup.exe' is not listed."},
				},
			},
			Boundary: {
				title: "Verify that files at the maximum allowed size upload and larger files are rejected",
				steps: []Step{
					{"Open the upload page and select a file exactly at the maximum allowed size.", "The file is accepted for upload."},
					{"Click 'Upload'.", "The upload completes and the file appears in the list."},
					{"Select a file one megabyte larger than the maximum size.", "The file is selected in the dialog."},
					{"Click 'Upload'.", "The upload is rejected with a message stating the maximum file size."},
				},
			},
			Edge: {
				title: "Verify that an interrupted upload can be retried without creating duplicate files",
				steps: []Step{
					{"Start uploading a 50 MB file.", "The progress bar starts moving."},
					{"Disconnect the network when the progress reaches about 50%.", "The upload pauses and an error such as 'Upload interrupted' is shown."},
					{"Reconnect the network and click 'Retry'.", "The upload resumes or restarts and completes successfully."},
					{"Open the file list.", "The file is listed exactly once."},
				},
			},
		},
	},
	{
		name:     "search",
		keywords: []string{"search"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that searching by a known keyword returns matching results",
				steps: []Step{
					{"Open the page with the search bar.", "The search bar is visible and enabled."},
					{"Type the keyword 'invoice' into the search bar.", "The keyword appears in the search field."},
					{"Press Enter or click the search icon.", "A results list is shown with items containing 'invoice'."},
					{"Open the first result.", "The detail page of the selected item opens."},
				},
			},
			Negative: {
				title: "Verify that a search with no matches shows a no results message",
				steps: []Step{
					{"Open the page with the search bar.", "The search bar is visible."},
					{"Type the keyword 'zzqqxx-nonexistent'.", "The keyword appears in the search field."},
					{"Press Enter.", "The message 'No results found' is shown instead of a results list."},
					{"Clear the search field.", "The default list or empty search state is restored."},
				},
			},
			Boundary: {
				title: "Verify that the search field handles minimum and maximum query lengths",
				steps: []Step{
					{"Type a single character into the search bar and press Enter.", "Results are shown or a message asks for a longer query."},
					{"Type a query exactly at the maximum allowed length and press Enter.", "The search runs without errors."},
					{"Type a query longer than the maximum allowed length.", "Input stops at the limit or a length error is shown."},
					{"Submit an empty search.", "The search is not run or all items are listed, without errors."},
				},
			},
			Edge: {
				title: "Verify that searching with special characters does not break the results page",
				steps: []Step{
					{"Type the query '<script>alert(1)</script>' into the search bar.", "The text is shown literally in the field."},
					{"Press Enter.", "The results page loads without running any script and shows no results or escaped matches."},
					{"Search for 'O'Brien & Sons'.", "Items containing the apostrophe and ampersand are matched correctly."},
					{"Search for an emoji such as '📄'.", "The search completes without errors."},
				},
			},
		},
	},
	{
		name:     "delete",
		keywords: []string{"delete", "remove"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that the user can delete an item after confirming the deletion",
				steps: []Step{
					{"Open the list and locate the item 'Test Item 1'.", "The item is visible with a 'Delete' action."},
					{"Click 'Delete' on 'Test Item 1'.", "A confirmation dialog asks 'Are you sure you want to delete this item?'."},
					{"Click 'Confirm' in the dialog.", "The dialog closes and the message 'Item deleted' is shown."},
					{"Refresh the list.", "'Test Item 1' is no longer listed."},
				},
			},
			Negative: {
				title: "Verify that cancelling the delete confirmation keeps the item",
				steps: []Step{
					{"Open the list and click 'Delete' on 'Test Item 2'.", "The confirmation dialog is shown."},
					{"Click 'Cancel' in the dialog.", "The dialog closes and no success message is shown."},
					{"Refresh the list.", "'Test Item 2' is still listed."},
					{"Log in as a read-only user and open the same list.", "The 'Delete' action is hidden or disabled."},
				},
			},
			Boundary: {
				title: "Verify that deleting the last remaining item leaves a correct empty state",
				steps: []Step{
					{"Open a list that contains exactly one item.", "The single item is shown."},
					{"Delete the item and confirm.", "The message 'Item deleted' is shown."},
					{"Look at the list area.", "An empty state such as 'No items yet' is displayed."},
					{"Try the bulk delete action on the empty list.", "The action is disabled or does nothing, without errors."},
				},
			},
			Edge: {
				title: "Verify that deleting an item already deleted in another session is handled gracefully",
				steps: []Step{
					{"Open the same list in two browser tabs.", "Both tabs show 'Test Item 3'."},
					{"Delete 'Test Item 3' in the first tab and confirm.", "The item is removed in the first tab."},
					{"Delete 'Test Item 3' in the second tab and confirm.", "A message says the item no longer exists and no error page is shown."},
					{"Refresh the second tab.", "The list no longer shows 'Test Item 3'."},
				},
			},
		},
	},
	{
		name:     "access",
		keywords: []string{"hidden", "visible", "access", "permission"},
		templates: map[Category]template{
			Positive: {
				title: "Verify that a user with permission can view the protected content",
				steps: []Step{
					{"Log in as a user who has access to the protected content.", "The dashboard loads after login."},
					{"Navigate to the protected module from the main menu.", "The module is listed in the menu."},
					{"Open the module.", "The module content is displayed in full."},
					{"Check the audit log for the access.", "The access is logged with the user name and timestamp."},
				},
			},
			Negative: {
				title: "Verify that a user without permission cannot open the protected content by direct URL",
				steps: []Step{
					{"Log in as a user without access to the protected content.", "The dashboard loads after login."},
					{"Check the main menu for the protected module.", "The module is not listed."},
					{"Paste the module's direct URL into the address bar.", "Access is denied with the message 'You do not have permission to view this page'."},
					{"Check the audit log.", "The denied attempt is recorded with the user name and timestamp."},
				},
			},
			Boundary: {
				title: "Verify that access changes take effect immediately when a permission is granted or revoked",
				steps: []Step{
					{"Log in as a user without the permission and open the module URL.", "Access is denied."},
					{"As an admin, grant the permission to that user.", "The permission change is saved."},
					{"As the user, refresh the module URL.", "The module content is displayed."},
					{"As an admin, revoke the permission and have the user refresh again.", "Access is denied again."},
				},
			},
			Edge: {
				title: "Verify that hidden content stays hidden in search results and shared links",
				steps: []Step{
					{"Log in as a user without access to the hidden content.", "The dashboard loads."},
					{"Search for the title of the hidden content.", "The hidden content does not appear in the results."},
					{"Open a shared link to the hidden content.", "Access is denied without revealing the content title."},
					{"Open the content's preview thumbnail URL.", "The preview is not served to the user."},
				},
			},
		},
	},
}

// genericTemplates apply when no topic matches.
var genericTemplates = map[Category][]template{
	Positive: {
		{
			title: "Verify that the user can successfully complete the main action when all inputs are valid",
			steps: []Step{
				{"Open the web browser and navigate to the application page.", "The page loads completely with all elements visible and ready to use."},
				{"Enter valid information in all required fields.", "The system accepts all input without displaying any error messages."},
				{"Click the 'Submit' or 'Save' button.", "The system processes the request and displays a loading indicator."},
				{"Wait for the operation to complete and observe the result.", "A success message confirms the action was completed."},
			},
		},
		{
			title: "Verify that the user can view and access all main features of the application",
			steps: []Step{
				{"Navigate to the home page of the application.", "The home page loads with the main navigation menu visible."},
				{"Click each main navigation link.", "Each page loads correctly without errors."},
				{"Click the buttons and interactive elements on each page.", "Every button responds and performs its intended action."},
				{"Check the page layout on screen.", "The page is properly formatted with no overlapping elements or broken images."},
			},
		},
	},
	Negative: {
		{
			title: "Verify that the system displays an error message when the user enters invalid information",
			steps: []Step{
				{"Navigate to the application page with input fields.", "All input fields are visible and ready for data entry."},
				{"Enter incorrectly formatted information such as 'abc@' in the email field.", "The input is accepted into the field."},
				{"Click the 'Submit' button.", "The system validates the input and detects the errors."},
				{"Observe the error messages on the page.", "Clear error messages explain what is wrong and how to fix it."},
			},
		},
		{
			title: "Verify that the system prevents form submission when required fields are left empty",
			steps: []Step{
				{"Navigate to the form with required fields.", "Required fields are marked with an asterisk (*)."},
				{"Leave all required fields empty.", "The required fields remain empty."},
				{"Click the 'Submit' button.", "The system prevents the form submission."},
				{"Check the validation messages.", "Empty required fields are highlighted with the message 'This field is required'."},
			},
		},
	},
	Boundary: {
		{
			title: "Verify that the system correctly handles minimum and maximum input values",
			steps: []Step{
				{"Navigate to the page with fields that have length or value limits.", "The input fields are ready for testing."},
				{"Enter the minimum allowed value or number of characters.", "The minimum value is accepted without errors."},
				{"Clear the field and enter the maximum allowed value or number of characters.", "The maximum value is accepted or input stops at the limit."},
				{"Enter a value that exceeds the maximum limit.", "Additional input is prevented or an error about the limit is shown."},
			},
		},
		{
			title: "Verify that values just outside the allowed range are rejected",
			steps: []Step{
				{"Navigate to the page with a numeric field that has a defined range.", "The field is visible and editable."},
				{"Enter a value one below the minimum and click 'Save'.", "The value is rejected with a message stating the minimum."},
				{"Enter a value one above the maximum and click 'Save'.", "The value is rejected with a message stating the maximum."},
				{"Enter zero and then a negative number.", "Each value is accepted or rejected according to the documented range."},
			},
		},
	},
	Edge: {
		{
			title: "Verify that the system handles special characters and unusual inputs without crashing",
			steps: []Step{
				{"Navigate to the page with text input fields.", "The input fields are ready for typing."},
				{"Enter special characters such as '@#$%^&*()_+=' in a text field.", "The characters are accepted or the disallowed ones are clearly indicated."},
				{"Click the 'Submit' button.", "The input is handled without crashing or showing technical errors."},
				{"Continue using the page after the submission.", "The page remains functional with no broken layout."},
			},
		},
		{
			title: "Verify that submitting the same form twice in quick succession does not create duplicates",
			steps: []Step{
				{"Fill in the form with valid data.", "The form accepts the data."},
				{"Double-click the 'Submit' button quickly.", "The button is disabled after the first click or a single request is sent."},
				{"Wait for the operation to finish.", "One success message is shown."},
				{"Check the saved records.", "Exactly one record exists for the submission."},
			},
		},
	},
}

// titleAspects feed fallback titles once the templates run out.
var titleAspects = []string{
	"can perform the main action",
	"receives correct validation messages",
	"sees appropriate feedback",
	"cannot bypass security restrictions",
	"experiences correct behavior under different conditions",
	"can access the feature from multiple entry points",
	"receives proper error handling",
	"can complete the workflow successfully",
	"sees correct data displayed",
	"cannot perform unauthorized actions",
}
